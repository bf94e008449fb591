package report

import (
	"LedgerSeek/internal/domain/models"
	drepo "LedgerSeek/internal/domain/repository"
	"LedgerSeek/pkg/logger"
	"LedgerSeek/pkg/util"
)

// ConsoleReporter logs every sample the search advances through, mirroring
// the {sequence, close time, timestamp} progress lines an operator follows.
type ConsoleReporter struct {
	logger *logger.Logger
}

func NewConsole(l *logger.Logger) drepo.Reporter {
	return &ConsoleReporter{logger: l}
}

func (r *ConsoleReporter) Report(s models.Sample) {
	r.logger.Info("ledger sample",
		logger.Int64("sequence", s.Sequence),
		logger.Int64("close_time", s.CloseTime),
		logger.String("closed_at", util.FormatRippleTime(s.CloseTime)),
	)
}
