package bootstrap

// logSummary logs a one-line startup summary: modules loaded, binding counts
// by kind, and how many async singletons are already warm.
func (a *App[C]) logSummary() {
	infos := a.Registry.Registrations()

	byKind := make(map[string]int)
	warm := 0
	asyncTotal := 0
	for _, info := range infos {
		byKind[info.Kind]++
		if info.Kind == "async_singleton" {
			asyncTotal++
			if info.Resolved {
				warm++
			}
		}
	}

	fields := map[string]interface{}{
		"name":        a.Name,
		"version":     a.Version,
		"instance_id": a.InstanceID,
		"environment": a.Cfg.GetServiceConfig().Environment,
		"modules":     a.Modules.Loaded(),
		"bindings":    len(infos),
		"startup_ms":  a.startupDuration.Milliseconds(),
	}
	for kind, count := range byKind {
		fields["bindings_"+kind] = count
	}
	if asyncTotal > 0 {
		fields["warm"] = warm
	}

	a.Logger.Info("startup complete", fields)
}
