// Command planner is a terminal client for the study planner API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/yukikurage/study-planner-api/internal/auth"
	"github.com/yukikurage/study-planner-api/internal/constants"
	"github.com/yukikurage/study-planner-api/internal/dto"
	apierrors "github.com/yukikurage/study-planner-api/internal/errors"
	"github.com/yukikurage/study-planner-api/internal/planner"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type globalOptions struct {
	apiURL    string
	token     string
	statePath string
	timeout   time.Duration
}

func (o *globalOptions) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.apiURL, "api", envOr("PLANNER_API_URL", "http://localhost:5000"), "base URL of the planner API")
	flagSet.StringVar(&o.token, "token", os.Getenv("PLANNER_TOKEN"), "bearer token (default $PLANNER_TOKEN)")
	flagSet.StringVar(&o.statePath, "state", defaultStatePath(), "file holding the last task list and pending changes")
	flagSet.DurationVar(&o.timeout, "timeout", constants.DefaultClientTimeout, "timeout for each API call")
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printHelp(out)
		return nil
	}

	err := dispatch(args[0], args[1:], out)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

func dispatch(command string, rest []string, out io.Writer) error {
	switch command {
	case "list":
		return runList(rest, out)
	case "add":
		return runAdd(rest, out)
	case "toggle":
		return runMutation("toggle", rest, out, (*planner.Board).Toggle)
	case "delete":
		return runMutation("delete", rest, out, (*planner.Board).Delete)
	case "sync":
		return runSync(rest, out)
	case "token":
		return runToken(rest, out)
	default:
		return fmt.Errorf("unknown command %q (run \"planner help\")", command)
	}
}

// session is an opened board plus where to save it
type session struct {
	board *planner.Board
	opts  globalOptions
}

func open(opts globalOptions) (*session, error) {
	state, err := planner.LoadState(opts.statePath)
	if err != nil {
		return nil, err
	}
	client := planner.NewClient(opts.apiURL, opts.token, opts.timeout)
	return &session{board: planner.NewBoard(client, state), opts: opts}, nil
}

// refresh fetches the list; an unreachable API leaves the saved list in place
func (s *session) refresh(ctx context.Context) error {
	if err := s.board.Refresh(ctx); err != nil && !planner.IsUnavailable(err) {
		return err
	}
	return nil
}

func (s *session) save() error {
	return planner.SaveState(s.opts.statePath, s.board.Snapshot())
}

func runList(args []string, out io.Writer) error {
	var opts globalOptions
	flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
	opts.addFlags(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	s, err := open(opts)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := s.refresh(ctx); err != nil {
		return describe(err)
	}

	renderBoard(out, s.board, time.Now())
	return s.save()
}

func runAdd(args []string, out io.Writer) error {
	var opts globalOptions
	var req dto.CreateTaskRequest
	flagSet := pflag.NewFlagSet("add", pflag.ContinueOnError)
	opts.addFlags(flagSet)
	flagSet.StringVarP(&req.Title, "title", "t", "", "task title (required)")
	flagSet.StringVarP(&req.Subject, "subject", "s", "", "subject (required)")
	flagSet.StringVarP(&req.DueDate, "due", "d", "", "due date, YYYY-MM-DD or RFC 3339 (required)")
	flagSet.StringVar(&req.Description, "description", "", "optional description")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	s, err := open(opts)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := s.refresh(ctx); err != nil {
		return describe(err)
	}
	if err := s.board.Add(ctx, req); err != nil {
		return describe(err)
	}

	renderBoard(out, s.board, time.Now())
	return s.save()
}

func runMutation(name string, args []string, out io.Writer, apply func(*planner.Board, context.Context, string) error) error {
	var opts globalOptions
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	opts.addFlags(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: planner %s <task-id>", name)
	}

	s, err := open(opts)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := s.refresh(ctx); err != nil {
		return describe(err)
	}
	if err := apply(s.board, ctx, flagSet.Arg(0)); err != nil {
		return describe(err)
	}

	renderBoard(out, s.board, time.Now())
	return s.save()
}

func runSync(args []string, out io.Writer) error {
	var opts globalOptions
	flagSet := pflag.NewFlagSet("sync", pflag.ContinueOnError)
	opts.addFlags(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	s, err := open(opts)
	if err != nil {
		return err
	}

	report, syncErr := s.board.Sync(context.Background())
	renderSyncReport(out, report)
	if err := s.save(); err != nil {
		return err
	}
	if syncErr != nil {
		return describe(syncErr)
	}

	renderBoard(out, s.board, time.Now())
	return nil
}

func runToken(args []string, out io.Writer) error {
	var subject, secret, issuer string
	var ttl time.Duration
	flagSet := pflag.NewFlagSet("token", pflag.ContinueOnError)
	flagSet.StringVar(&subject, "subject", "", "identity to put in the sub claim (required)")
	flagSet.StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HS256 signing secret (default $JWT_SECRET)")
	flagSet.StringVar(&issuer, "issuer", os.Getenv("JWT_ISSUER"), "iss claim (default $JWT_ISSUER)")
	flagSet.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if subject == "" || secret == "" {
		return errors.New("token requires --subject and --secret")
	}

	token, err := auth.NewJWTVerifier(auth.JWTConfig{SecretKey: secret, Issuer: issuer}).IssueToken(subject, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Fprintln(out, token)
	return nil
}

// describe turns an error into the message shown to the user
func describe(err error) error {
	switch apierrors.KindOf(err) {
	case apierrors.KindUnauthenticated:
		return errors.New("not signed in: pass --token or set PLANNER_TOKEN")
	case apierrors.KindNotFound:
		return errors.New("task not found")
	case apierrors.KindUnavailable:
		return errors.New("planner API is unreachable; run \"planner sync\" later")
	default:
		return err
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".planner-state.json"
	}
	return filepath.Join(dir, "study-planner", "state.json")
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, strings.TrimLeft(`
planner: manage study tasks from the terminal.

Usage:
  planner <command> [flags]

Commands:
  list                      show tasks, incomplete first, by due date
  add -t TITLE -s SUBJECT -d DATE [--description TEXT]
  toggle <task-id>          mark a task complete or not complete
  delete <task-id>          delete a task
  sync                      send changes made while the API was unreachable
  token --subject ID        sign a development token with --secret

Common flags:
  --api URL       API base URL (default $PLANNER_API_URL or http://localhost:5000)
  --token TOKEN   bearer token (default $PLANNER_TOKEN)
  --state PATH    local state file
  --timeout DUR   per-call timeout (default 5s)
`, "\n"))
}
