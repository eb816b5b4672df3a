// Command console is a terminal client for the gateway admin API. It drives
// one tablesync controller per collection: paging, filtering, and debounced
// search behave exactly as the web console's tables do.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"aigate/internal/client"
	"aigate/internal/tablesync"
)

var collections = map[string]bool{
	"accounts":      true,
	"groups":        true,
	"proxies":       true,
	"announcements": true,
	"users":         true,
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	viper.AutomaticEnv()
	viper.SetDefault("GATEWAY_URL", "http://localhost:8080")
	baseURL := viper.GetString("GATEWAY_URL")
	email := viper.GetString("CONSOLE_EMAIL")
	password := viper.GetString("CONSOLE_PASSWORD")

	ctx := context.Background()
	api := client.New(baseURL)
	if email != "" {
		if _, err := api.Login(ctx, email, password); err != nil {
			log.Fatal().Str("gateway", baseURL).Msg(client.ErrorMessage(err, "login failed"))
		}
		log.Info().Str("email", email).Msg("logged in")
	} else if token := viper.GetString("CONSOLE_TOKEN"); token != "" {
		api.SetToken(token)
	} else {
		log.Fatal().Msg("set CONSOLE_EMAIL/CONSOLE_PASSWORD or CONSOLE_TOKEN")
	}

	store := tablesync.NewStore(tablesync.StoreConfig{})
	session := &session{api: api, store: store}
	session.open("accounts")
	defer session.close()

	fmt.Println("commands: open <collection> | page N | next | prev | filter <key> <value|-> | search <text> | delete <id> | refresh | quit")
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return
		}
		if !session.dispatch(strings.Fields(sc.Text())) {
			return
		}
	}
}

type session struct {
	api        *client.Client
	store      *tablesync.Store
	collection string
	ctl        *tablesync.Controller[json.RawMessage]
}

func (s *session) open(collection string) {
	if !collections[collection] {
		fmt.Printf("unknown collection %q\n", collection)
		return
	}
	s.close()
	s.collection = collection
	s.ctl = tablesync.NewController(tablesync.Config[json.RawMessage]{
		Root:     collection,
		Fetch:    s.api.Fetcher(collection),
		Store:    s.store,
		OnChange: s.render,
		OnError: func(err error) {
			fmt.Println("error:", client.ErrorMessage(err, "request failed"))
		},
	})
}

func (s *session) close() {
	if s.ctl != nil {
		s.ctl.Close()
	}
}

func (s *session) dispatch(args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "quit", "exit":
		return false
	case "open":
		if len(args) == 2 {
			s.open(args[1])
		}
	case "page":
		if len(args) == 2 {
			if n, err := strconv.Atoi(args[1]); err == nil {
				s.ctl.SetPage(n)
			}
		}
	case "next":
		s.ctl.SetPage(s.ctl.Page() + 1)
	case "prev":
		s.ctl.SetPage(s.ctl.Page() - 1)
	case "filter":
		switch {
		case len(args) == 3 && args[2] == "-":
			s.ctl.SetFilter(args[1], nil)
		case len(args) == 3:
			s.ctl.SetFilter(args[1], args[2])
		}
	case "search":
		s.ctl.SetSearch(strings.Join(args[1:], " "))
	case "delete":
		if len(args) == 2 {
			s.delete(args[1])
		}
	case "refresh":
		s.ctl.Refresh()
	default:
		fmt.Printf("unknown command %q\n", args[0])
	}
	return true
}

// delete removes one row and lets the bound mutation invalidate every cached
// page of the collection, so the visible table refetches on success.
func (s *session) delete(id string) {
	m := tablesync.BindMutation(tablesync.MutationConfig[string]{
		Store: s.store,
		Root:  s.collection,
		Fn: func(ctx context.Context, id string) error {
			return s.api.Delete(ctx, s.collection, id)
		},
		OnSuccess: func() { fmt.Println("deleted", id) },
		OnError: func(err error) {
			fmt.Println("error:", client.ErrorMessage(err, "delete failed"))
		},
	})
	m.Mutate(context.Background(), id)
}

func (s *session) render() {
	if s.ctl.IsLoading() {
		fmt.Printf("[%s] loading...\n", s.collection)
		return
	}
	p := s.ctl.Pagination()
	if p == nil {
		return
	}
	for _, row := range s.ctl.Data() {
		fmt.Println(string(row))
	}
	note := ""
	if s.ctl.IsFetching() {
		note = " (refreshing)"
	}
	fmt.Printf("[%s] page %d/%d, %d total%s\n", s.collection, p.Page, p.TotalPages, p.Total, note)
}
