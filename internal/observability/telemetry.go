// Package observability wires tracing export and continuous profiling for the process.
package observability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/fanbet/internal/config"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// Telemetry owns the exporters started by Setup. The zero value is a valid no-op.
type Telemetry struct {
	tracing   bool
	profiler  *pyroscope.Profiler
	shutdowns int
}

func Setup(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("telemetry")

	t := &Telemetry{}
	if dsn := strings.TrimSpace(cfg.UptraceDSN); cfg.UptraceEnabled && dsn != "" {
		uptrace.ConfigureOpentelemetry(
			uptrace.WithDSN(dsn),
			uptrace.WithServiceName(cfg.ServiceName),
			uptrace.WithServiceVersion(cfg.ServiceVersion),
			uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		)
		t.tracing = true
		logger.Info("uptrace enabled", "service_name", cfg.ServiceName, "environment", cfg.AppEnv)
	} else {
		logger.Info("uptrace disabled", "enabled", cfg.UptraceEnabled, "dsn_set", dsn != "")
	}

	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled")
		return t, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              map[string]string{"env": cfg.AppEnv, "service": cfg.ServiceName},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	t.profiler = profiler
	logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)

	return t, nil
}

func (t *Telemetry) TracingEnabled() bool {
	return t != nil && t.tracing
}

// Shutdown flushes pending spans and profiles. Calls after the first are no-ops.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	t.shutdowns++
	if t.shutdowns > 1 {
		return nil
	}

	var errs []error
	if t.profiler != nil {
		if err := t.profiler.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop pyroscope: %w", err))
		}
	}
	if t.tracing {
		if err := uptrace.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown uptrace: %w", err))
		}
	}
	return errors.Join(errs...)
}
