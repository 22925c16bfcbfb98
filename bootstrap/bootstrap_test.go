package bootstrap

import (
	"context"
	stderrors "errors"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/kbukum/medsum/config"
	"github.com/kbukum/medsum/logger"
)

type testConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Port                 int
}

func (c *testConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Port == 0 {
		c.Port = 3001
	}
}

func (c *testConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if c.Port < 0 {
		return stderrors.New("port must be positive")
	}
	return nil
}

func newTestApp(t *testing.T) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(&testConfig{ServiceConfig: config.ServiceConfig{Name: "test", Version: "v1"}}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "test" || app.Version != "v1" {
		t.Errorf("unexpected app identity %s %s", app.Name, app.Version)
	}
	if app.Cfg.Port != 3001 {
		t.Errorf("expected defaults applied, got port %d", app.Cfg.Port)
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	_, err := NewApp(&testConfig{}, WithLogger(logger.Nop()))
	if err == nil || !strings.Contains(err.Error(), "config validation") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRunTask_HookOrder(t *testing.T) {
	app := newTestApp(t)
	var order []string
	record := func(name string) Hook {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}
	app.OnStart(record("start1"), record("start2"))
	app.OnReady(record("ready"))
	app.OnStop(record("stop1"), record("stop2"))

	err := app.RunTask(context.Background(), func(context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	want := "start1,start2,ready,task,stop2,stop1"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRunTask_Errors(t *testing.T) {
	taskErr := stderrors.New("task failed")
	stopErr := stderrors.New("stop failed")

	app := newTestApp(t)
	app.OnStop(func(context.Context) error { return stopErr })
	if err := app.RunTask(context.Background(), func(context.Context) error { return taskErr }); !stderrors.Is(err, taskErr) {
		t.Errorf("expected task error to win, got %v", err)
	}

	app = newTestApp(t)
	app.OnStop(func(context.Context) error { return stopErr })
	if err := app.RunTask(context.Background(), func(context.Context) error { return nil }); !stderrors.Is(err, stopErr) {
		t.Errorf("expected stop error, got %v", err)
	}
}

func TestRun_StartFailureStillStops(t *testing.T) {
	app := newTestApp(t)
	stopped := false
	app.OnStart(func(context.Context) error { return stderrors.New("bind failed") })
	app.OnStop(func(context.Context) error { stopped = true; return nil })

	if err := app.Run(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	if !stopped {
		t.Error("expected stop hooks to run after a failed start")
	}
}

func TestRun_Signal(t *testing.T) {
	app := newTestApp(t)
	ch := make(chan os.Signal, 1)
	app.signals = func() (<-chan os.Signal, func()) { return ch, func() {} }

	stopped := false
	app.OnReady(func(context.Context) error { ch <- syscall.SIGTERM; return nil })
	app.OnStop(func(context.Context) error { stopped = true; return nil })

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !stopped {
		t.Error("expected stop hooks after signal")
	}
}

func TestRunTask_SignalCancelsTask(t *testing.T) {
	app := newTestApp(t)
	ch := make(chan os.Signal, 1)
	app.signals = func() (<-chan os.Signal, func()) { return ch, func() {} }

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		ch <- os.Interrupt
		<-ctx.Done()
		return ctx.Err()
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected task context cancelled, got %v", err)
	}
}
