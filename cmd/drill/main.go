package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	practicesession "github.com/quizdrill/backend/internal/domain/practice_session"
	"github.com/quizdrill/backend/internal/infrastructure/config"
	"github.com/quizdrill/backend/internal/logger"
	"github.com/quizdrill/backend/internal/metrics"
	"github.com/quizdrill/backend/internal/service"
	"github.com/quizdrill/backend/internal/store"
)

const usage = `usage: drill [--config FILE] [--verbose] <command> [args]

commands:
  run [--max N] [--shuffle]   drill the quiz until every question is answered
  list                        print the quiz
  add QUESTION ANSWER         append a question
  import FILE                 replace the quiz with a quiz document
  export [FILE]               write the quiz document (default quiz.json, - for stdout)
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("drill", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	envFile := global.String("config", "", "env file to load instead of .env")
	verbose := global.BoolP("verbose", "v", false, "log to stdout")

	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	log := zap.NewNop()
	if *verbose {
		log = logger.New(cfg)
	}
	defer log.Sync()

	ctx := context.Background()
	st, err := store.Open(ctx, store.OptionsFromConfig(cfg.Store))
	if err != nil {
		fmt.Fprintf(stderr, "open store: %v\n", err)
		return 1
	}
	defer st.Close()

	trainer := service.NewTrainer(st, cfg.Store.Key, log, metrics.New(nil))
	if err := trainer.Load(ctx); err != nil {
		fmt.Fprintf(stderr, "load quiz: %v\n", err)
		return 1
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "run":
		err = runDrill(trainer, rest, stdin, stdout, stderr)
	case "list":
		err = list(trainer, stdout)
	case "add":
		err = add(ctx, trainer, rest, stdout)
	case "import":
		err = importFile(ctx, trainer, rest, stdout)
	case "export":
		err = exportFile(trainer, rest, stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		global.Usage()
		return 2
	}

	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func runDrill(t *service.Trainer, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	maxQuestions := fs.IntP("max", "n", 0, "drill at most N questions (0 for all)")
	shuffle := fs.Bool("shuffle", false, "shuffle the questions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := practicesession.DefaultConfig()
	if *maxQuestions > 0 {
		cfg.MaxQuestions = maxQuestions
	}
	cfg.Shuffle = *shuffle

	view := t.StartSession(cfg)
	defer t.EndSession(view.ID)

	if view.Complete {
		fmt.Fprintln(stdout, "No questions to drill.")
	}

	in := bufio.NewReader(stdin)
	for !view.Complete {
		fmt.Fprintf(stdout, "\n%s\n> ", view.Prompt)

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(stdout, "\nSession abandoned.")
				return nil
			}
			return fmt.Errorf("read answer: %w", err)
		}

		view, err = t.SubmitAnswer(view.ID, strings.TrimRight(line, "\r\n"))
		if err != nil {
			return err
		}

		if view.LastFeedback == practicesession.FeedbackCorrect {
			fmt.Fprintln(stdout, "Correct!")
		} else {
			fmt.Fprintln(stdout, "Wrong, it will come back.")
		}
		fmt.Fprintf(stdout, "attempts: %d  correct: %d  score: %d%%\n", view.Attempts, view.Correct, view.Score)
	}

	fmt.Fprintf(stdout, "\nFinished. Score: %d%%\n", view.Score)
	return nil
}

func list(t *service.Trainer, stdout io.Writer) error {
	title, questions := t.Snapshot()

	fmt.Fprintln(stdout, title)
	for i, q := range questions {
		fmt.Fprintf(stdout, "%3d. %s -> %s\n", i, q.Question, q.Answer)
	}
	return nil
}

func add(ctx context.Context, t *service.Trainer, args []string, stdout io.Writer) error {
	if len(args) != 2 {
		return errors.New("add: want QUESTION ANSWER")
	}

	before := questionCount(t)
	if err := t.CreateQuestion(ctx, args[0], args[1]); err != nil {
		return err
	}
	if questionCount(t) == before {
		return errors.New("add: question and answer must not be empty")
	}

	fmt.Fprintf(stdout, "Added question %d.\n", before)
	return nil
}

func importFile(ctx context.Context, t *service.Trainer, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("import: want FILE")
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := t.Import(ctx, raw); err != nil {
		return err
	}

	title, questions := t.Snapshot()
	fmt.Fprintf(stdout, "Imported %q with %d questions.\n", title, len(questions))
	return nil
}

func exportFile(t *service.Trainer, args []string, stdout io.Writer) error {
	if len(args) > 1 {
		return errors.New("export: want at most one FILE")
	}

	filename, payload, err := t.Export()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		filename = args[0]
	}

	if filename == "-" {
		_, err = stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(filename, payload, 0o644); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Fprintf(stdout, "Exported to %s.\n", filename)
	return nil
}

func questionCount(t *service.Trainer) int {
	_, questions := t.Snapshot()
	return len(questions)
}
