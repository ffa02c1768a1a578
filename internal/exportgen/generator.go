// Package exportgen produces synthetic chat export files for exercising
// the pipeline. Generated exports mix clean text, mojibake-corrupted text,
// reactions, and malformed records, so a run over them touches every
// normalization path.
package exportgen

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/arianv/chatmend/pkg/logger"
)

const outputFilePermission = 0o644

// Config holds generation parameters.
type Config struct {
	OutputDir      string  // directory for the generated files
	Files          int     // number of export files
	Messages       int     // messages per file
	Senders        int     // distinct sender names
	CorruptRatio   float64 // fraction of text fields written as mojibake
	MalformedRatio float64 // fraction of records missing a required field
	Seed           int64   // rng seed controlling the record mix
}

// Stats summarizes one generation run.
type Stats struct {
	FilesWritten     int
	MessagesWritten  int
	CorruptedFields  int
	MalformedRecords int
	ReactionsWritten int
}

type rawReaction struct {
	Reaction string `json:"reaction"`
	Actor    string `json:"actor"`
}

type rawMessage struct {
	SenderName  string        `json:"sender_name,omitempty"`
	TimestampMS int64         `json:"timestamp_ms,omitempty"`
	Content     string        `json:"content,omitempty"`
	Reactions   []rawReaction `json:"reactions,omitempty"`
}

type rawExport struct {
	Title    string       `json:"title"`
	Messages []rawMessage `json:"messages"`
}

// Phrases lean on accents and emoji so corruption has something to chew on.
var phrases = []string{
	"café at nine?",
	"on my way 🚗",
	"jalapeño night 🌶️",
	"😂😂 that was great",
	"see you mañana",
	"crème brûlée for dessert",
	"good morning ☀️",
	"family photo 👨‍👩‍👧‍👦",
	"thumbs up from me 👍🏽",
	"déjà vu",
}

var reactionEmoji = []string{"😂", "❤️", "👍", "🙏", "😮", "😢"}

// Generate writes cfg.Files export files into cfg.OutputDir.
func Generate(ctx context.Context, cfg *Config) (Stats, error) {
	if cfg.Files < 1 || cfg.Messages < 1 || cfg.Senders < 1 {
		return Stats{}, ErrInvalidConfig
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("create output dir: %w", err)
	}

	log := logger.Get().Named("exportgen")
	rng := rand.New(rand.NewSource(cfg.Seed))

	senders := make([]string, cfg.Senders)
	for i := range senders {
		senders[i] = fmt.Sprintf("Sender %s", uuid.NewString()[:8])
	}

	var stats Stats
	ts := time.Now().Add(-30 * 24 * time.Hour).UnixMilli()

	for i := 0; i < cfg.Files; i++ {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		export := rawExport{Title: fmt.Sprintf("generated thread %d", i+1)}
		if rng.Float64() < cfg.CorruptRatio {
			export.Title = Corrupt(export.Title + " ✨")
			stats.CorruptedFields++
		}

		for j := 0; j < cfg.Messages; j++ {
			ts += int64(rng.Intn(600_000))
			msg := rawMessage{
				SenderName:  senders[rng.Intn(len(senders))],
				TimestampMS: ts,
				Content:     phrases[rng.Intn(len(phrases))],
			}

			if rng.Float64() < cfg.MalformedRatio {
				// Knock out a required field so the record gets dropped.
				if rng.Intn(2) == 0 {
					msg.SenderName = ""
				} else {
					msg.TimestampMS = 0
				}
				stats.MalformedRecords++
			}

			if rng.Float64() < cfg.CorruptRatio {
				msg.Content = Corrupt(msg.Content)
				stats.CorruptedFields++
			}

			for r := rng.Intn(3); r > 0; r-- {
				emoji := reactionEmoji[rng.Intn(len(reactionEmoji))]
				if rng.Float64() < cfg.CorruptRatio {
					emoji = Corrupt(emoji)
					stats.CorruptedFields++
				}
				msg.Reactions = append(msg.Reactions, rawReaction{
					Reaction: emoji,
					Actor:    senders[rng.Intn(len(senders))],
				})
				stats.ReactionsWritten++
			}

			export.Messages = append(export.Messages, msg)
			stats.MessagesWritten++
		}

		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return stats, fmt.Errorf("marshal export: %w", err)
		}
		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("message_%d.json", i+1))
		if err := os.WriteFile(path, data, outputFilePermission); err != nil {
			return stats, fmt.Errorf("write export: %w", err)
		}
		stats.FilesWritten++

		log.Debug(ctx, "wrote export file",
			logger.String("path", path),
			logger.Int("messages", cfg.Messages),
		)
	}

	log.Info(ctx, "generation complete",
		logger.Int("files", stats.FilesWritten),
		logger.Int("messages", stats.MessagesWritten),
		logger.Int("corrupted_fields", stats.CorruptedFields),
		logger.Int("malformed_records", stats.MalformedRecords),
	)
	return stats, nil
}

// Corrupt re-reads s's UTF-8 bytes as if each were a standalone character,
// reproducing the classic Latin-1 mis-decode that the pipeline repairs.
func Corrupt(s string) string {
	out := make([]rune, 0, len(s))
	for _, b := range []byte(s) {
		out = append(out, rune(b))
	}
	return string(out)
}
