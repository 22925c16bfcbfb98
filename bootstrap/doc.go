// Package bootstrap runs a medsum binary's lifecycle: validated config,
// logger, start hooks, wait (for a signal or a finite task), stop hooks.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStart(srv.Start)
//	app.OnStop(srv.Stop)
//	err = app.Run(ctx)
package bootstrap
