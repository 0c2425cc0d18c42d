package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"

	"usergraph/internal/feature/users/client"
	platformhttp "usergraph/internal/platform/http"
)

type config struct {
	Endpoint string        `env:"GRAPHQL_ENDPOINT" envDefault:"http://localhost:5000/graphql"`
	Timeout  time.Duration `env:"CLIENT_TIMEOUT" envDefault:"10s"`
}

const help = `commands:
  create                 start a new user
  edit <n>               edit user number n
  set name|email|age <v> set a form field
  submit                 create or update
  cancel                 leave edit mode and clear the form
  delete <n>             delete user number n
  refresh                reload the list
  quit`

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("invalid client configuration", "error", err)
		os.Exit(1)
	}

	api := client.NewGraphQLClient(cfg.Endpoint, platformhttp.NewHTTPClient(cfg.Timeout))
	ctrl := client.NewController(api)

	_ = ctrl.Refresh(context.Background())
	client.Render(os.Stdout, ctrl.State())
	fmt.Println(help)

	repl(os.Stdin, os.Stdout, ctrl)
}

func repl(in io.Reader, out io.Writer, ctrl *client.Controller) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		ctx := context.Background()
		var err error
		switch fields[0] {
		case "quit", "exit":
			return
		case "create", "cancel":
			ctrl.Cancel()
		case "edit":
			var u client.User
			if u, err = pick(ctrl, fields); err == nil {
				ctrl.Edit(u)
			}
		case "set":
			err = set(ctrl, fields)
		case "submit":
			err = ctrl.Submit(ctx)
		case "delete":
			var u client.User
			if u, err = pick(ctrl, fields); err == nil {
				err = ctrl.Delete(ctx, u.ID)
			}
		case "refresh":
			err = ctrl.Refresh(ctx)
		default:
			fmt.Fprintln(out, help)
			continue
		}

		if err != nil {
			slog.Error("command failed", "command", fields[0], "error", err)
		}
		client.Render(out, ctrl.State())
	}
}

// pick resolves the 1-based list index in fields[1].
func pick(ctrl *client.Controller, fields []string) (client.User, error) {
	if len(fields) < 2 {
		return client.User{}, fmt.Errorf("%s needs a user number", fields[0])
	}
	n, err := strconv.Atoi(fields[1])
	users := ctrl.State().Users
	if err != nil || n < 1 || n > len(users) {
		return client.User{}, fmt.Errorf("no user number %q", fields[1])
	}
	return users[n-1], nil
}

func set(ctrl *client.Controller, fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("set needs a field name")
	}
	value := strings.Join(fields[2:], " ")
	switch fields[1] {
	case "name":
		ctrl.SetName(value)
	case "email":
		ctrl.SetEmail(value)
	case "age":
		ctrl.SetAge(value)
	default:
		return fmt.Errorf("unknown field %q", fields[1])
	}
	return nil
}
