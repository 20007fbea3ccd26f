// Package observability instruments petje.af API calls with OpenTelemetry.
//
// Every call made by the client runs inside a client span and feeds a
// small set of metrics (calls, duration, errors by code, in flight). The
// SDK uses the global providers by default, which are no-ops until the
// host application installs real ones, for example with InitTracer and
// InitMeter:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-app"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-app"))
//	defer mp.Shutdown(ctx)
package observability
