package main

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vytor/mistakeflash/internal/config"
	"github.com/vytor/mistakeflash/internal/db"
	"github.com/vytor/mistakeflash/internal/export"
	"github.com/vytor/mistakeflash/internal/models"
	"github.com/vytor/mistakeflash/internal/repository"
	"github.com/vytor/mistakeflash/internal/repository/sqlstore"
	"github.com/vytor/mistakeflash/internal/services"
)

// app holds what a single command invocation needs.
type app struct {
	database *db.DB
	cards    repository.CardRepository
	reviews  repository.ReviewLogRepository
	mistakes services.MistakeService
	stats    services.StatsService
}

func openApp(cfg config.Config) (*app, error) {
	database, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	cards := sqlstore.NewCardRepository(database.DB)
	reviews := sqlstore.NewReviewLogRepository(database.DB)
	return &app{
		database: database,
		cards:    cards,
		reviews:  reviews,
		mistakes: services.NewMistakeService(cards, reviews,
			services.WithLimits(services.Limits{Default: cfg.QuizDefaultLimit, Max: cfg.QuizMaxLimit})),
		stats: services.NewStatsService(cards, sqlstore.NewStatsRepository(database.DB), nil),
	}, nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCmd(cfg config.Config, out io.Writer) *cobra.Command {
	var (
		userID int64
		limit  int
		a      *app
	)

	root := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Inspect and update mistake review schedules",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.DBDriver = config.NormalizeDriver(cfg.DBDriver)
			var err error
			a, err = openApp(cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a != nil {
				return a.database.Close()
			}
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&cfg.DBDriver, "driver", cfg.DBDriver, "database driver (sqlite or postgres)")
	root.PersistentFlags().StringVar(&cfg.DBDSN, "dsn", cfg.DBDSN, "database DSN")
	root.PersistentFlags().Int64VarP(&userID, "user", "u", 0, "user id")
	root.PersistentFlags().IntVarP(&limit, "limit", "n", 0, "maximum number of rows (0 for the default)")

	var event models.MistakeEvent
	record := &cobra.Command{
		Use:   "record ITEM_KEY",
		Short: "Record a mistake on an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event.UserID = userID
			event.ItemKey = args[0]
			id, err := a.mistakes.RecordMistake(cmd.Context(), event)
			if err != nil {
				return err
			}
			return printJSON(out, map[string]int64{"id": id})
		},
	}
	record.Flags().StringVar(&event.WrongAnswer, "wrong", "", "the wrong answer given")
	record.Flags().StringVar(&event.CorrectAnswer, "correct", "", "the expected answer")
	record.Flags().StringVar(&event.LessonID, "lesson", "", "lesson id")
	record.Flags().StringVar(&event.Context, "context", models.ContextGeneral, "word, sentence, pronunciation or general")

	review := &cobra.Command{
		Use:   "review ITEM_KEY QUALITY",
		Short: "Apply a 0-5 review result to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Errorf("quality must be an integer, got %q", args[1])
			}
			res, err := a.mistakes.UpdateReviewResult(cmd.Context(), userID, args[0], q)
			if err != nil {
				return err
			}
			if res == nil {
				return printJSON(out, map[string]bool{"found": false})
			}
			return printJSON(out, res)
		},
	}

	due := &cobra.Command{
		Use:   "due",
		Short: "List cards due for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := a.mistakes.GetDueMistakes(cmd.Context(), userID, limit)
			if err != nil {
				return err
			}
			return printJSON(out, cards)
		},
	}

	quizCmd := &cobra.Command{
		Use:   "quiz",
		Short: "Build a review quiz from due cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.mistakes.GetReviewQuiz(cmd.Context(), userID, limit)
			if err != nil {
				return err
			}
			return printJSON(out, items)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all cards, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := a.mistakes.GetUserMistakes(cmd.Context(), userID, limit)
			if err != nil {
				return err
			}
			return printJSON(out, cards)
		},
	}

	history := &cobra.Command{
		Use:   "history",
		Short: "List recent review results",
		RunE: func(cmd *cobra.Command, args []string) error {
			logs, err := a.mistakes.ListReviewHistory(cmd.Context(), userID, limit)
			if err != nil {
				return err
			}
			return printJSON(out, logs)
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show review statistics and refresh the cached snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.stats.RefreshStats(cmd.Context(), userID); err != nil {
				return err
			}
			s, err := a.stats.GetCachedStats(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return printJSON(out, s)
		},
	}

	var outPath string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write all cards and reviews of a user to an xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID <= 0 {
				return errors.New("--user is required")
			}
			f, err := os.Create(outPath)
			if err != nil {
				return errors.Wrap(err, "create output")
			}
			e := &export.Exporter{Cards: a.cards, Reviews: a.reviews}
			if err := e.Export(cmd.Context(), userID, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrap(err, "close output")
			}
			cmd.Printf("wrote %s\n", outPath)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "mistakes.xlsx", "output file")

	root.AddCommand(record, review, due, quizCmd, list, history, stats, exportCmd)
	return root
}
