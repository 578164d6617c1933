package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/subhasish93/Timetable/cmd/cli/internal/commands"
	"github.com/subhasish93/Timetable/internal/logger"
	"github.com/subhasish93/Timetable/internal/telemetry"
)

var (
	version = "dev"
	cli     struct {
		Provision   commands.ProvisionCmd   `cmd:"" help:"Create organisation, department, course, sections A/B, teacher, subject and assignment in one go"`
		Create      commands.CreateCmd      `cmd:"" help:"Create a single resource"`
		Sections    commands.SectionsCmd    `cmd:"" help:"List sections"`
		Slots       commands.SlotsCmd       `cmd:"" help:"List time slots"`
		Assignments commands.AssignmentsCmd `cmd:"" help:"List subject teacher assignments"`
		Timetable   commands.TimetableCmd   `cmd:"" help:"View and edit timetable entries"`

		Server   string        `help:"Timetable backend URL" default:"http://127.0.0.1:8000" env:"TIMETABLE_SERVER"`
		Timeout  time.Duration `help:"Per-request timeout" default:"30s" env:"TIMETABLE_TIMEOUT"`
		Wait     time.Duration `help:"Wait up to this long for the backend to become reachable" default:"0s"`
		CacheDir string        `help:"Directory for the HTTP response cache" env:"TIMETABLE_CACHE_DIR"`
		Cache    bool          `help:"Cache GET responses in memory"`
		Debug    bool          `help:"Enable debug mode."`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("timetable-cli"),
		kong.Description("Administrative client for the college timetable backend."),
		kong.Vars{
			"version": version,
		})

	log := logger.Setup(cli.Debug)
	if !cli.Debug {
		log = log.Level(zerolog.ErrorLevel)
	}
	ctx = log.WithContext(ctx)

	shutdown, err := telemetry.Init(ctx, "timetable-cli", version)
	cmd.FatalIfErrorf(err)

	cmd.BindTo(ctx, (*context.Context)(nil))
	err = cmd.Run(&commands.Globals{
		Debug:    cli.Debug,
		Version:  version,
		Server:   cli.Server,
		Timeout:  cli.Timeout,
		Wait:     cli.Wait,
		CacheDir: cli.CacheDir,
		Cache:    cli.Cache,
	})

	if serr := shutdown(context.Background()); serr != nil {
		log.Warn().Err(serr).Msg("failed to flush telemetry")
	}
	cmd.FatalIfErrorf(err)
}
