package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/finance"
	"github.com/google/subcommands"
)

type registerCmd struct {
	name, email, password string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a user and log in" }
func (*registerCmd) Usage() string {
	return `fin register -name <name> -email <email> -password <password>

  Creates a new user and makes them the current user. Emails are unique.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name of the user.")
	f.StringVar(&c.email, "email", "", "Email of the user, used to log in.")
	f.StringVar(&c.password, "password", "", "Password of the user.")
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.email == "" || c.password == "" {
		return usage("-name, -email and -password are required")
	}
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		u, err := s.Register(ctx, c.name, c.email, c.password)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Registered %s <%s>\n", u.Name, u.Email)
		return subcommands.ExitSuccess
	})
}

type loginCmd struct {
	email, password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in as an existing user" }
func (*loginCmd) Usage() string {
	return `fin login -email <email> -password <password>
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email of the user.")
	f.StringVar(&c.password, "password", "", "Password of the user.")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" {
		return usage("-email is required")
	}
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		u, err := s.Login(ctx, c.email, c.password)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Logged in as %s <%s>\n", u.Name, u.Email)
		return subcommands.ExitSuccess
	})
}

type logoutCmd struct{}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "log out the current user" }
func (*logoutCmd) Usage() string            { return "fin logout\n" }
func (*logoutCmd) SetFlags(f *flag.FlagSet) {}

func (*logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		if err := s.Logout(ctx); err != nil {
			return fail(err)
		}
		fmt.Println("Logged out")
		return subcommands.ExitSuccess
	})
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string             { return "whoami" }
func (*whoamiCmd) Synopsis() string         { return "print the current user" }
func (*whoamiCmd) Usage() string            { return "fin whoami\n" }
func (*whoamiCmd) SetFlags(f *flag.FlagSet) {}

func (*whoamiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		u, ok := s.CurrentUser()
		if !ok {
			return fail(finance.ErrNotLoggedIn)
		}
		fmt.Printf("%s <%s>\n", u.Name, u.Email)
		return subcommands.ExitSuccess
	})
}
