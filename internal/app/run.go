package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/gridrelax/internal/clock"
	"github.com/vk/gridrelax/internal/ctxlog"
	"github.com/vk/gridrelax/internal/engine"
	"github.com/vk/gridrelax/internal/grid"
	"github.com/vk/gridrelax/internal/hcl"
	"github.com/vk/gridrelax/internal/monitor"
)

const shutdownTimeout = 5 * time.Second

// Run loads the input grid, relaxes it, saves the result and prints the
// summary record "iterations,wall_ms,cpu_ms".
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	strategy, err := a.settings.Strategy()
	if err != nil {
		return err
	}

	opts := append([]engine.Option(nil), a.solverOpts...)
	if addr := a.settings.Monitor.Address; addr != "" {
		mon := monitor.New(ctx)
		if err := mon.Start(addr); err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if serr := mon.Shutdown(sctx); serr != nil && err == nil {
				err = serr
			}
		}()
		opts = append(opts, engine.WithObserver(mon))
	}

	solver, err := engine.New(engine.Config{
		Barrier:   a.config.Barrier,
		Partition: strategy,
		Workers:   a.config.Subtasks,
		Epsilon:   a.settings.Epsilon,
	}, opts...)
	if err != nil {
		return err
	}

	input, err := grid.Allocate(a.settings.Grid.Rows, a.settings.Grid.Cols)
	if err != nil {
		return err
	}
	defer input.Release()
	if err := input.Load(a.config.Input); err != nil {
		return err
	}
	a.logger.Info("Input grid loaded.", "path", a.config.Input, "rows", input.Rows, "cols", input.Cols)

	res, err := solver.Solve(ctx, input)
	if err != nil {
		return err
	}
	defer res.Grid.Release()

	if err := res.Grid.Save(a.config.Output); err != nil {
		return err
	}
	a.logger.Info("Output grid written.", "path", a.config.Output)

	wallMs, cpuMs := clock.Millis(res.Wall), clock.Millis(res.CPU)
	fmt.Fprintf(a.outW, "%d,%.10e,%.10e\n", res.Iterations, wallMs, cpuMs)

	if path := a.settings.Report.Path; path != "" {
		err := hcl.WriteReport(path, hcl.Report{
			Input:      a.config.Input,
			Output:     a.config.Output,
			Barrier:    a.config.Barrier.String(),
			Partition:  strategy.String(),
			Subtasks:   a.config.Subtasks,
			Epsilon:    a.settings.Epsilon,
			Iterations: res.Iterations,
			WallMillis: wallMs,
			CPUMillis:  cpuMs,
		})
		if err != nil {
			return err
		}
		a.logger.Debug("Run report written.", "path", path)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
