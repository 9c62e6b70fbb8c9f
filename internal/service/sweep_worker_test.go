package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"cargoflow/internal/config"
	"cargoflow/internal/service"
	"cargoflow/mocks"
)

func TestSweepWorker_Disabled_ReturnsImmediately(t *testing.T) {
	alerts := new(mocks.MockAlertService)
	worker := service.NewSweepWorker(alerts, config.SweepConfig{Enabled: false, IntervalSecs: 1}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		worker.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled worker did not return")
	}
	alerts.AssertNotCalled(t, "RunSweep", mock.Anything)
}

func TestSweepWorker_SweepsImmediatelyOnStart(t *testing.T) {
	alerts := new(mocks.MockAlertService)
	swept := make(chan struct{}, 1)
	alerts.On("RunSweep", mock.Anything).
		Run(func(mock.Arguments) { swept <- struct{}{} }).
		Return(&service.SweepResult{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	worker := service.NewSweepWorker(alerts, config.SweepConfig{Enabled: true, IntervalSecs: 3600}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("worker did not sweep on start")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}
