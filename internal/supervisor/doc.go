// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

/*
Package supervisor provides process supervision for the recommender using
suture v4.

# Overview

Long-running services are organized into two layers:

	RootSupervisor ("buyonix-recommender")
	├── ModelSupervisor ("model-layer")
	│   ├── ModelRefreshService
	│   └── UptimeService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the refresh loop is restarted inside the model layer. The API
layer keeps serving the last published model while that happens.

# Restart Policy

FailureThreshold, FailureDecay and FailureBackoff come from the supervisor
section of the configuration (see TreeConfigFrom). Zero values fall back to
suture's defaults.

# Logging

Supervisor events (service panics, restarts, backoff) are logged through
sutureslog, bridged onto the zerolog logger via logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(&cfg.Supervisor))
	if err != nil {
	    return err
	}
	tree.AddModelService(services.NewModelRefreshService(engine, refreshCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	errCh := tree.ServeBackground(ctx)

After shutdown, UnstoppedServiceReport lists services that did not stop
within ShutdownTimeout.
*/
package supervisor
