package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"circuit"
	"circuit/config"
	"circuit/debug"
	"circuit/simulation"
)

var (
	configPath = flag.String("config", "", "仿真场景YAML配置文件")
	live       = flag.Bool("live", false, "实时模式，按周期推进直到收到中断信号")
	jsonPath   = flag.String("json", "", "仿真记录JSON输出文件")
	chartPath  = flag.String("chart", "", "HTML图表输出文件")
	plotPath   = flag.String("plot", "", "波形图片输出文件(.png/.svg/.pdf)")
	metrics    = flag.String("metrics", "", "指标监听地址，如 :9090")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig 读取配置文件并用命令行参数覆盖
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "live":
			cfg.Simulation.Live = *live
		case "json":
			cfg.Output.JSON = *jsonPath
		case "chart":
			cfg.Output.Chart = *chartPath
		case "plot":
			cfg.Output.Plot = *plotPath
		case "metrics":
			cfg.Output.Metrics = *metrics
		}
	})
	return cfg, cfg.Validate()
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := cfg.Logger(os.Stderr)
	reg := cfg.Metrics()

	c, err := cfg.Build(circuit.WithLogger(logger), circuit.WithMetrics(reg))
	if err != nil {
		return err
	}
	if !c.HasGround() {
		return errors.New("电路缺少接地元件")
	}
	c.Resolve()

	if reg != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		server := &http.Server{
			Addr:              cfg.Output.Metrics,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("指标服务启动", "addr", cfg.Output.Metrics)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("指标服务异常", "err", err)
			}
		}()
		defer server.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rec := debug.NewRecord(c)
	if cfg.Simulation.Live {
		err = c.Run(ctx, cfg.Simulation.Period, func(res *simulation.Result) {
			rec.Update(res)
			logger.Debug("仿真步", "step", res.Step, "time", res.Time)
		})
	} else {
		err = c.Simulate(ctx, cfg.EndTime(), rec.Update)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	}
	rec.Snapshot(c)
	if outErr := writeOutputs(cfg, rec, logger); outErr != nil {
		return errors.Join(err, outErr)
	}
	return err
}

// writeOutputs 输出仿真记录、图表和波形图片
func writeOutputs(cfg *config.Config, rec *debug.Record, logger *slog.Logger) error {
	write := func(path string, render func(*os.File) error) error {
		if path == "" {
			return nil
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := render(f); err != nil {
			f.Close()
			return fmt.Errorf("写入 %s 失败: %w", path, err)
		}
		logger.Info("输出文件", "path", path)
		return f.Close()
	}
	if err := write(cfg.Output.JSON, func(f *os.File) error { return rec.Render(f) }); err != nil {
		return err
	}
	if err := write(cfg.Output.Chart, func(f *os.File) error { return (&debug.Charts{Record: rec}).Render(f) }); err != nil {
		return err
	}
	if cfg.Output.Plot != "" {
		vPath, iPath, err := rec.SavePlots(cfg.Output.Plot)
		if err != nil {
			return err
		}
		logger.Info("输出波形", "voltage", vPath, "current", iPath)
	}
	return nil
}
