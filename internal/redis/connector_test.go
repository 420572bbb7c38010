package redis

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/navmanifest/internal/config"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		DialTimeout:    50 * time.Millisecond,
		ReadTimeout:    50 * time.Millisecond,
		WriteTimeout:   50 * time.Millisecond,
		PoolSize:       1,
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConnectOptions)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ConnectOptions) {}},
		{name: "empty addr", mutate: func(o *ConnectOptions) { o.Addr = "" }, wantErr: true},
		{name: "zero connect timeout", mutate: func(o *ConnectOptions) { o.ConnectTimeout = 0 }, wantErr: true},
		{name: "zero retry interval", mutate: func(o *ConnectOptions) { o.RetryInterval = 0 }, wantErr: true},
		{name: "zero max wait", mutate: func(o *ConnectOptions) { o.MaxWait = 0 }, wantErr: true},
		{name: "zero ping timeout", mutate: func(o *ConnectOptions) { o.PingTimeout = 0 }, wantErr: true},
		{name: "negative warn threshold", mutate: func(o *ConnectOptions) { o.WarnThreshold = -1 }, wantErr: true},
	}

	cl := &connectionLogger{logger: logger.NewNop()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			err := cl.validateOptions(opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewGivesUpAfterTimeout(t *testing.T) {
	start := time.Now()
	client, err := New(context.Background(), validOptions(), logger.NewNop())
	if err == nil {
		t.Fatal("New() should fail when nothing listens on the address")
	}
	if client != nil {
		t.Error("New() should not return a client on failure")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("New() took %v, should respect ConnectTimeout", elapsed)
	}
}

func TestNewStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := validOptions()
	opts.ConnectTimeout = time.Minute
	if _, err := New(ctx, opts, logger.NewNop()); err == nil {
		t.Fatal("New() should fail on a cancelled context")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{RedisAddr: "redis:6379", RedisDB: 2, RedisPoolSize: 4, RedisConnectTimeout: time.Second}
	opts := OptionsFromConfig(cfg)
	if opts.Addr != "redis:6379" || opts.RedisDB != 2 || opts.PoolSize != 4 || opts.ConnectTimeout != time.Second {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
}
