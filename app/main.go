package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/notify"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/jobtrack/app/reminder"
	"github.com/umputun/jobtrack/app/seed"
	"github.com/umputun/jobtrack/app/service"
	"github.com/umputun/jobtrack/app/store"
	"github.com/umputun/jobtrack/app/web"
)

var opts struct {
	Listen      string   `long:"listen" env:"JOBTRACK_LISTEN" default:":8000" description:"listen address"`
	DB          string   `long:"db" env:"JOBTRACK_DB" default:"jobtracker.db" description:"sqlite database file"`
	CORSOrigins []string `long:"cors-origin" env:"JOBTRACK_CORS_ORIGINS" env-delim:"," default:"http://localhost:5173" default:"http://127.0.0.1:5173" description:"allowed CORS origin(s), * for any"`
	Seed        string   `long:"seed" env:"JOBTRACK_SEED" description:"yaml seed file, loaded into empty database"`
	RateLimit   float64  `long:"rate-limit" env:"JOBTRACK_RATE_LIMIT" default:"10" description:"write requests per second per client, 0 to disable"`
	Throttle    int      `long:"throttle" env:"JOBTRACK_THROTTLE" default:"1000" description:"max concurrent requests, 0 to disable"`
	Dbg         bool     `long:"dbg" env:"JOBTRACK_DEBUG" description:"debug mode"`

	Reminder struct {
		Enabled    bool          `long:"enabled" env:"ENABLED" description:"enable follow-up reminders"`
		Schedule   string        `long:"schedule" env:"SCHEDULE" default:"0 9 * * *" description:"reminder cron schedule"`
		Dest       []string      `long:"dest" env:"DEST" env-delim:"," description:"reminder destination(s), webhook url or slack:channel"`
		Headers    []string      `long:"header" env:"HEADER" env-delim:"," description:"webhook header(s), as name:value"`
		SlackToken string        `long:"slack-token" env:"SLACK_TOKEN" description:"slack token, enables slack destinations"`
		Timeout    time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"webhook timeout"`
	} `group:"reminder" namespace:"reminder" env-namespace:"JOBTRACK_REMINDER"`

	Log struct {
		Enabled         bool   `long:"enabled" env:"ENABLED" description:"enable logging to file"`
		Filename        string `long:"filename" env:"FILENAME" default:"jobtrack.log" description:"log file name"`
		MaxSize         int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"max log file size in MB"`
		MaxBackups      int    `long:"max-backups" env:"MAX_BACKUPS" default:"7" description:"max number of rotated files"`
		MaxAge          int    `long:"max-age" env:"MAX_AGE" default:"0" description:"max days to keep rotated files, 0 to keep all"`
		EnabledCompress bool   `long:"compress" env:"COMPRESS" description:"compress rotated files"`
	} `group:"log" namespace:"log" env-namespace:"JOBTRACK_LOG"`

	Open struct {
		Attempts int           `long:"attempts" env:"ATTEMPTS" default:"5" description:"how many times to try opening database"`
		Duration time.Duration `long:"duration" env:"DURATION" default:"500ms" description:"initial retry delay"`
	} `group:"open" namespace:"open" env-namespace:"JOBTRACK_OPEN"`
}

var revision = "unknown"

func main() {
	fmt.Printf("jobtrack %s\n", revision)

	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}
	setupLogs()

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals(cancel) // handle SIGQUIT, SIGINT and SIGTERM

	if err := run(ctx); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Printf("[INFO] jobtrack stopped")
}

// run opens the store, loads the seed and starts reminder and web server. Blocks until ctx canceled.
func run(ctx context.Context) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("[WARN] failed to close store, %v", err)
		}
	}()

	svc := service.New(st)

	if opts.Seed != "" {
		n, err := seedStore(ctx, svc, opts.Seed)
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", opts.Seed, err)
		}
		log.Printf("[INFO] seeded %d applications from %s", n, opts.Seed)
	}

	if opts.Reminder.Enabled {
		rmd := makeReminder(svc)
		go func() {
			if err := rmd.Run(ctx); err != nil {
				log.Printf("[WARN] reminder failed, %v", err)
			}
		}()
	}

	srv, err := web.New(web.Config{
		Applications: svc,
		Version:      revision,
		CORSOrigins:  opts.CORSOrigins,
		Throttle:     opts.Throttle,
		RateLimit:    opts.RateLimit,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, opts.Listen)
}

// openStore opens sqlite store, retrying with backoff. The file may be on a volume not mounted yet.
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	rptr := repeater.New(&strategy.Backoff{Repeats: opts.Open.Attempts, Duration: opts.Open.Duration, Factor: 2, Jitter: true})

	var st *store.SQLiteStore
	err := rptr.Do(ctx, func() error {
		s, err := store.NewSQLiteStore(opts.DB)
		if err != nil {
			log.Printf("[WARN] can't open store %s, %v", opts.DB, err)
			return err
		}
		st = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", opts.DB, err)
	}
	log.Printf("[INFO] store opened, %s", opts.DB)
	return st, nil
}

// seedStore loads seed file into empty store, non-empty store is left alone
func seedStore(ctx context.Context, svc *service.Service, path string) (int, error) {
	apps, err := svc.List(ctx, store.Filter{})
	if err != nil {
		return 0, err
	}
	if len(apps) > 0 {
		log.Printf("[DEBUG] store has %d applications, seed skipped", len(apps))
		return 0, nil
	}

	items, err := seed.LoadFile(path)
	if err != nil {
		return 0, err
	}
	return seed.Apply(ctx, svc, items)
}

func makeReminder(st reminder.Store) *reminder.Reminder {
	notifiers := []notify.Notifier{
		notify.NewWebhook(notify.WebhookParams{Timeout: opts.Reminder.Timeout, Headers: opts.Reminder.Headers}),
	}
	if opts.Reminder.SlackToken != "" {
		notifiers = append(notifiers, notify.NewSlack(opts.Reminder.SlackToken))
	}
	return &reminder.Reminder{
		Store:        st,
		Notifiers:    notifiers,
		Destinations: opts.Reminder.Dest,
		Schedule:     opts.Reminder.Schedule,
	}
}

// setupLogs configures lgr and returns the log destination, rotated file if file logging enabled
func setupLogs() io.Writer {
	var out io.Writer = os.Stdout
	if opts.Log.Enabled {
		out = &lumberjack.Logger{
			Filename:   opts.Log.Filename,
			MaxSize:    opts.Log.MaxSize,
			MaxBackups: opts.Log.MaxBackups,
			MaxAge:     opts.Log.MaxAge,
			Compress:   opts.Log.EnabledCompress,
		}
	}

	if opts.Dbg {
		log.Setup(log.Out(out), log.Debug, log.Msec, log.CallerFunc, log.CallerPkg, log.CallerFile)
		return out
	}
	log.Setup(log.Out(out), log.Msec)
	return out
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			if sig == syscall.SIGQUIT { // catch SIGQUIT and print stack traces
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
				continue
			}
			log.Printf("[INFO] %s received, shutting down", sig)
			cancel()
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGTERM)
}
