package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/etnz/finance"
	"github.com/etnz/finance/api"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ledger as a local JSON API" }
func (*serveCmd) Usage() string {
	return `fin serve [-addr <host:port>]

  Serves the ledger of the current user over HTTP until interrupted.
  See "fin topic api".
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "localhost:8080", "Address to listen on. Port 0 picks a free port.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		srv := &http.Server{Addr: c.addr, Handler: api.NewHandler(s)}
		go func() {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdown); err != nil {
				log.Printf("cannot shut down the server: %v", err)
			}
		}()

		ln, err := net.Listen("tcp", c.addr)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Serving on http://%s/api\n", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fail(err)
		}
		return subcommands.ExitSuccess
	})
}
