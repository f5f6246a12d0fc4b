package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	cli "github.com/urfave/cli/v3"

	"herhaalbot/internal/bot/api"
	"herhaalbot/internal/bot/pages"
	"herhaalbot/internal/bot/services"
)

func main() {
	app := &cli.Command{
		Name:  "herhaalbot",
		Usage: "Creates the recurring monthly pages on nlwiki",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Debug logging"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			hlog.SetOutput(os.Stdout)
			hlog.SetLevel(hlog.LevelInfo)
			if cmd.Bool("verbose") {
				hlog.SetLevel(hlog.LevelDebug)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			runCmd(),
			serveCmd(),
			tasksCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run once; does nothing unless today is the last day of the month",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Run even if it is not the last day of the month"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Read from the wiki but do not save anything"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			b, err := setup(cmd.String("config"), cmd.Bool("dry-run"), false)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := b.runner.Run(ctx, services.RunOptions{Force: cmd.Bool("force")})
			if err != nil {
				return err
			}
			if report.Gated {
				return nil
			}
			for _, f := range report.Failures {
				hlog.Warnf("Failed: %q (line %d, %s): %v", f.Title, f.Line, f.Stage, f.Err)
			}
			fmt.Print(report.SummaryText)
			return nil
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run daily on a schedule and serve the admin API",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			b, err := setup(cmd.String("config"), false, true)
			if err != nil {
				return err
			}
			defer b.Close()

			runCtx, cancelRuns := context.WithCancel(ctx)
			defer cancelRuns()

			scheduler, err := services.NewSchedulerService(runCtx, b.runner, b.cfg.Schedule.Cron, b.cfg.Location())
			if err != nil {
				return err
			}
			if err := scheduler.Start(); err != nil {
				return err
			}
			defer scheduler.Stop()

			h := server.Default(server.WithHostPorts(b.cfg.Server.Addr), server.WithExitWaitTime(5*time.Second))
			api.RegisterRoutes(h, api.NewRunHandler(b.history, b.runner))

			stdlog.Printf("herhaalbot: admin API on %s, runs at %q (%s)", b.cfg.Server.Addr, b.cfg.Schedule.Cron, b.cfg.Schedule.TimeZone)
			// blocks until SIGINT or SIGTERM
			h.Spin()
			return nil
		},
	}
}

func tasksCmd() *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Print the task list the next run would process",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			b, err := setup(cmd.String("config"), true, false)
			if err != nil {
				return err
			}
			defer b.Close()

			date := pages.ProcessingDate(time.Now().In(b.cfg.Location()))
			list, failures, err := b.runner.TaskList(ctx, date)
			if err != nil {
				return err
			}
			fmt.Printf("Processing date %s, %d tasks\n", date.Format("2006-01-02"), len(list))
			for i, task := range list {
				fmt.Printf("%3d. %s\n", i+1, task)
			}
			for _, f := range failures {
				fmt.Printf("  line %d: %v\n", f.Line, f.Err)
			}
			return nil
		},
	}
}
