// Package main records drone telemetry to disk until interrupted.
package main

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/skysweep/frontier/telemetry"
	"github.com/skysweep/frontier/tello"
)

var logger = golog.NewDevelopmentLogger("record")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	TelloAddr  string `flag:"tello,usage=drone command address (defaults to AP mode address)"`
	Dir        string `flag:"dir,default=telemetry,usage=parent directory for session recordings"`
	IntervalMs int    `flag:"interval-ms,default=1000,usage=capture interval in milliseconds"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) (err error) {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	client, err := tello.Dial(ctx, argsParsed.TelloAddr, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, client.Close())
	}()

	battery, err := client.Battery(ctx)
	if err != nil {
		return err
	}
	logger.Infow("connected", "battery_pct", battery)

	recorder, err := telemetry.NewRecorder(telemetry.RecorderConfig{
		Dir:      argsParsed.Dir,
		Interval: time.Duration(argsParsed.IntervalMs) * time.Millisecond,
	}, client, logger)
	if err != nil {
		return err
	}
	recorder.Start()
	defer func() {
		err = multierr.Combine(err, recorder.Close(context.Background()))
	}()

	<-ctx.Done()
	logger.Info("stopping")
	return nil
}
