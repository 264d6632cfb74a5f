package module

import (
	"csvprep/internal/core/csvclean"
	"csvprep/internal/core/table"
	"csvprep/internal/platform/config"
	"csvprep/internal/services/preprocess/service"
)

// Options holds configuration settings for the preprocess module
type Options struct {
	Service service.Config

	// Ledger records runs in postgres when a database is wired
	Ledger bool
	// MaxEventBytes caps notification bodies accepted over HTTP
	MaxEventBytes int64
}

// FromConfig reads CSVPREP_* settings
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CSVPREP_")
	def := service.DefaultConfig()
	return Options{
		Service: service.Config{
			DestBucket: c.MayString("DEST_BUCKET", def.DestBucket),
			DestPrefix: c.MayString("DEST_PREFIX", def.DestPrefix),
			TotalSteps: c.MayInt("TOTAL_STEPS", def.TotalSteps),
			Clean: csvclean.Options{
				ZeroAsEmpty: c.MayBool("ZERO_AS_EMPTY", def.Clean.ZeroAsEmpty),
				NullTokens:  c.MayCSV("NULL_TOKENS", nil),
			},
			Quoting:        c.MayEnum("OUTPUT_QUOTING", def.Quoting, table.QuotingStandard, table.QuotingLegacy),
			MaxObjectBytes: c.MayInt64("MAX_OBJECT_BYTES", def.MaxObjectBytes),
			DecodeKeys:     c.MayBool("DECODE_KEYS", def.DecodeKeys),
		},
		Ledger:        c.MayBool("LEDGER", false),
		MaxEventBytes: c.MayInt64("MAX_EVENT_BYTES", 1<<20),
	}
}
