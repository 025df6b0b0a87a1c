/*
Package log provides structured logging via zerolog.

A single package-level zerolog.Logger is configured once with Init and
shared by every caller. Component loggers (WithComponent, WithReplica)
attach fields so that log lines from the quorum state manager, the
election store, and any embedding process are distinguishable without
passing a logger through every call.

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true, Output: os.Stdout})

	quorumLog := log.WithComponent("quorum")
	quorumLog.Info().Uint32("epoch", 6).Msg("transitioned to candidate")

	replicaLog := log.WithReplica(1, directoryID.String())
	replicaLog.Warn().Msg("stored epoch behind log end epoch, recovering as unattached")

Until Init is called, Logger is the zero-value zerolog.Logger, which
discards output — tests that don't care about log lines need not call it.
*/
package log
