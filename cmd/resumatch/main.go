package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rsilvagit/resumatch/internal/availability"
	"github.com/rsilvagit/resumatch/internal/cache"
	"github.com/rsilvagit/resumatch/internal/config"
	"github.com/rsilvagit/resumatch/internal/gateway"
	"github.com/rsilvagit/resumatch/internal/model"
	"github.com/rsilvagit/resumatch/internal/monitor"
	"github.com/rsilvagit/resumatch/internal/notify"
	"github.com/rsilvagit/resumatch/internal/output"
	"github.com/rsilvagit/resumatch/internal/screen"
	"github.com/rsilvagit/resumatch/internal/upload"
	"github.com/rsilvagit/resumatch/internal/view"
)

const usage = `Usage: resumatch [global flags] <command> [flags]

Commands:
  jobs         list job postings
  create-job   create a job posting
  matches      list resume match scores
  upload       upload a PDF resume for a job
  health       show gateway reachability
  watch        re-probe the gateway on a schedule until interrupted

Run "resumatch <command> -h" for the flags of a command.
`

func envOrFlag(flagVal, envKey string) string {
	if flagVal != "" {
		return flagVal
	}
	return os.Getenv(envKey)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app holds what every command shares: one gateway client, one
// availability service and one notification surface.
type app struct {
	cfg     *config.Config
	gw      *gateway.Client
	avail   *availability.Service
	notes   *notify.Surface
	printer *output.ConsolePrinter
	writers []output.ResultWriter
	base    view.Query
	closers []io.Closer
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("resumatch", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	envFile := global.String("env-file", ".env", "File with environment variables")
	apiURL := global.String("api", "", "Gateway base URL (default $RESUMATCH_API_URL)")
	debug := global.Bool("debug", false, "Log every gateway request")
	telegramToken := global.String("telegram-token", "", "Telegram bot token")
	telegramChatID := global.String("telegram-chat-id", "", "Telegram chat ID")
	discordWebhook := global.String("discord-webhook", "", "Discord webhook URL")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	config.LoadDotEnv(*envFile)
	if *apiURL != "" {
		os.Setenv("RESUMATCH_API_URL", *apiURL)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *debug {
		cfg.Debug = true
	}
	cfg.TelegramToken = envOrFlag(*telegramToken, "TELEGRAM_TOKEN")
	cfg.TelegramChatID = envOrFlag(*telegramChatID, "TELEGRAM_CHAT_ID")
	cfg.DiscordWebhook = envOrFlag(*discordWebhook, "DISCORD_WEBHOOK_URL")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, stdout, stderr)
	defer a.close()

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "jobs":
		err = a.jobs(ctx, rest, stderr)
	case "create-job":
		err = a.createJob(ctx, rest, stderr)
	case "matches":
		err = a.matches(ctx, rest, stderr)
	case "upload":
		err = a.upload(ctx, rest, stderr)
	case "health":
		err = a.health(ctx, rest, stderr)
	case "watch":
		err = a.watch(ctx, rest, stderr)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmd)
		global.Usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp), errors.Is(err, errUsage):
		if !errors.Is(err, flag.ErrHelp) && err != errUsage {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

var errUsage = errors.New("usage")

func newApp(cfg *config.Config, stdout, stderr io.Writer) *app {
	a := &app{cfg: cfg, printer: output.NewConsolePrinter(stdout)}

	a.gw = gateway.New(gateway.Options{
		BaseURL:        cfg.APIURL,
		DefaultTimeout: cfg.DefaultTimeout,
		UploadTimeout:  cfg.UploadTimeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
		Debug:          cfg.Debug,
	})

	opts := availability.Options{UseMockFallback: cfg.UseMockFallback}
	if cfg.RedisURL != "" {
		hc, err := cache.New(cfg.RedisURL, cfg.APIURL, cfg.HealthTTL)
		if err != nil {
			log.Printf("[main] probe sharing disabled: %v", err)
		} else {
			opts.Store = hc
			a.closers = append(a.closers, hc)
		}
	}
	a.avail = availability.New(a.gw, opts)

	sinks := []notify.Sink{output.NewConsolePrinter(stderr)}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		tw := output.NewTelegramWriter(cfg.TelegramToken, cfg.TelegramChatID)
		sinks = append(sinks, tw)
		a.writers = append(a.writers, tw)
	}
	if cfg.DiscordWebhook != "" {
		dw := output.NewDiscordWriter(cfg.DiscordWebhook)
		sinks = append(sinks, dw)
		a.writers = append(a.writers, dw)
	}
	a.notes = notify.New(cfg.NotifyDuration, sinks...)
	a.base = view.Query{Locale: view.ParseLocale(cfg.Locale)}
	return a
}

func (a *app) close() {
	a.notes.Wait()
	for _, c := range a.closers {
		c.Close()
	}
}

// viewFlags registers the filter, sort and paging flags shared by the
// list commands.
type viewFlags struct {
	job, search, sort, order *string
	page, size               *int
}

func addViewFlags(fs *flag.FlagSet, defaultSort string) viewFlags {
	return viewFlags{
		job:    fs.String("job", "", "Only rows of this job ID"),
		search: fs.String("q", "", "Case-insensitive search term"),
		sort:   fs.String("sort", defaultSort, "Sort key"),
		order:  fs.String("order", "desc", "Sort order: asc or desc"),
		page:   fs.Int("page", 1, "Page number, starting at 1"),
		size:   fs.Int("size", view.DefaultPageSize, "Rows per page"),
	}
}

func (v viewFlags) query(base view.Query) (view.Query, error) {
	order, err := view.ParseOrder(*v.order)
	if err != nil {
		return view.Query{}, fmt.Errorf("%w: %w", errUsage, err)
	}
	base.JobID = *v.job
	base.Search = *v.search
	base.SortKey = *v.sort
	base.Order = order
	base.Page = *v.page - 1
	base.PageSize = *v.size
	return base, nil
}

func (a *app) jobs(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	vf := addViewFlags(fs, "")
	publish := fs.Bool("publish", false, "Also send the listed jobs to Telegram/Discord")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q, err := vf.query(a.base)
	if err != nil {
		return err
	}

	s := screen.NewJobs(a.gw, a.avail, a.notes)
	s.Load(ctx)
	page := s.View(q)
	if err := a.printer.WriteJobPage(page, s.Banner(), s.EmptyState()); err != nil {
		return err
	}

	if *publish {
		for _, w := range a.writers {
			if err := w.WriteJobs(page.Rows); err != nil {
				log.Printf("[main] publishing jobs: %v", err)
			}
		}
	}
	return nil
}

func (a *app) createJob(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("create-job", flag.ContinueOnError)
	fs.SetOutput(stderr)
	title := fs.String("title", "", "Job title (required)")
	company := fs.String("company", "", "Company (required)")
	description := fs.String("description", "", "Description (required)")
	requirements := fs.String("requirements", "", `Comma-separated requirements, ex: "React, TypeScript"`)
	location := fs.String("location", "", "Location")
	salary := fs.String("salary", "", `Salary range, ex: "$80,000 - $120,000"`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := screen.NewJobs(a.gw, a.avail, a.notes)
	job, err := s.Create(ctx, model.NewJob{
		Title:        *title,
		Company:      *company,
		Description:  *description,
		Requirements: model.ParseRequirements(*requirements),
		Location:     *location,
		Salary:       *salary,
	})
	if err != nil {
		return err
	}
	return a.printer.WriteJobs([]model.Job{job})
}

func (a *app) matches(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("matches", flag.ContinueOnError)
	fs.SetOutput(stderr)
	vf := addViewFlags(fs, view.KeyScore)
	if err := fs.Parse(args); err != nil {
		return err
	}
	q, err := vf.query(a.base)
	if err != nil {
		return err
	}

	s := screen.NewMatches(a.gw, a.avail, a.notes)
	s.Load(ctx)
	return a.printer.WriteMatchPage(s.View(q), s.ActiveJobs(), s.Banner(), s.EmptyState())
}

func (a *app) upload(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("file", "", "Path of the PDF resume")
	jobID := fs.String("job", "", "Job ID to match against")
	email := fs.String("email", "", "Candidate email address")
	drop := fs.Bool("drop", false, "Treat the file as dropped rather than picked")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := screen.NewUpload(a.gw, a.avail, a.notes)
	s.Load(ctx)
	if banner := s.Banner(); banner != "" {
		a.printer.WriteMessage("! " + banner)
	}
	if len(s.Jobs()) == 0 {
		a.printer.WriteMessage(s.EmptyState().Title)
		return errUsage
	}
	if *jobID != "" && !s.HasJob(*jobID) {
		return fmt.Errorf("job %q is not available, run \"resumatch jobs\" to list jobs", *jobID)
	}

	form := s.Form()
	if *path != "" {
		file, err := upload.Open(*path)
		if err != nil {
			return err
		}
		src := upload.Picker
		if *drop {
			src = upload.Drop
		}
		if _, err := form.SelectFile(file, src); err != nil {
			a.printer.WriteMessage(form.Message())
			return errUsage
		}
		a.printer.WriteMessage(form.Message())
	}
	form.SetJob(*jobID)
	form.SetEmail(*email)

	out, err := form.Submit(ctx)
	var verr *upload.ValidationError
	if errors.As(err, &verr) {
		a.printer.WriteMessage(verr.Message)
		return errUsage
	}
	if err != nil {
		a.printer.WriteMessage(form.Message())
		return err
	}
	a.printer.WriteMessage(out.Message)
	return nil
}

func (a *app) health(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(stderr)
	reprobe := fs.Bool("reprobe", false, "Ignore a shared probe result and check now")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var st availability.State
	if *reprobe {
		st = a.avail.Reprobe(ctx)
	} else {
		st = a.avail.Init(ctx)
	}
	a.printer.WriteHealth(a.gw.BaseURL(), st.String(), a.avail.CheckedAt())
	if banner := a.avail.Banner(); banner != "" {
		a.printer.WriteMessage(banner)
	}
	return nil
}

func (a *app) watch(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	spec := fs.String("spec", a.cfg.ProbeSpec, `Cron spec of the probe, ex: "@every 30s"`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	monitor.Announce(a.avail, a.notes)
	m := monitor.New(a.avail, *spec)
	if err := m.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	m.Stop()
	a.printer.WriteHealth(a.gw.BaseURL(), m.Last().String(), a.avail.CheckedAt())
	return nil
}
