package llm

import (
	"log/slog"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/entity"
)

// ParseReport turns raw model output into a Report. It never fails: when
// every repair in DefaultRepairs is exhausted it logs a bounded preview of the
// raw text and returns an empty report.
func ParseReport(raw string, logger *slog.Logger) entity.Report {
	if logger == nil {
		logger = slog.Default()
	}

	candidates := Candidates(raw)
	if len(candidates) == 0 {
		logger.Warn("llm.parse.no_json",
			"raw_len", len(raw),
			"preview", Preview(raw, constants.RawPreviewLength),
		)
		return entity.EmptyReport()
	}

	// A span without any report key (e.g. "{}" in prose) is only used when
	// nothing better parses.
	var fallback map[string]any
	for i, candidate := range candidates {
		cleaned := CleanCandidate(candidate)
		for _, repair := range DefaultRepairs {
			doc, err := repair.Apply(cleaned)
			if err != nil {
				logger.Debug("llm.parse.attempt_failed", "candidate", i, "strategy", repair.Name, "error", err)
				continue
			}
			if !hasReportKey(doc) {
				if fallback == nil {
					fallback = doc
				}
				break
			}
			if err := ValidateReportDocument(doc); err != nil {
				logger.Warn("llm.parse.schema_mismatch", "strategy", repair.Name, "error", err)
			}
			logger.Info("llm.parse.ok", "candidate", i, "strategy", repair.Name, "keys", len(doc))
			return NormalizeReport(doc)
		}
	}
	if fallback != nil {
		logger.Warn("llm.parse.no_report_keys", "keys", len(fallback))
		return NormalizeReport(fallback)
	}

	logger.Error("llm.parse.failed",
		"raw_len", len(raw),
		"preview", Preview(raw, constants.RawPreviewLength),
	)
	return entity.EmptyReport()
}

func hasReportKey(doc map[string]any) bool {
	if _, ok := doc[StepsField]; ok {
		return true
	}
	for _, k := range ReportStringFields {
		if _, ok := doc[k]; ok {
			return true
		}
	}
	return false
}

// Preview returns at most n runes of s.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
