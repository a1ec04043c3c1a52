package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bitsa-assistant/internal/assistant/classifier"
	"bitsa-assistant/internal/assistant/contextblock"
	"bitsa-assistant/internal/assistant/generator"
	"bitsa-assistant/internal/assistant/retriever"
	"bitsa-assistant/internal/common/config"
	"bitsa-assistant/internal/models"
)

func newAskCmd(a *app) *cobra.Command {
	var history []string

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Answer a question grounded in the club's records",
		Long: `Answer a question grounded in the club's records.

History turns are given as role:content pairs, oldest first:
  assistant-cli ask "and after that?" --turn "user:next event?" --turn "assistant:The Go workshop."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			turns, err := parseTurns(history)
			if err != nil {
				return err
			}
			s, err := a.build(cmd)
			if err != nil {
				return err
			}
			answer, err := s.Orchestrator.Answer(cmd.Context(), strings.Join(args, " "), turns)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), answer)
		},
	}
	cmd.Flags().StringArrayVar(&history, "turn", nil, "prior conversation turn as role:content (repeatable)")
	return cmd
}

func parseTurns(raw []string) ([]models.ConversationTurn, error) {
	turns := make([]models.ConversationTurn, 0, len(raw))
	for _, r := range raw {
		role, content, ok := strings.Cut(r, ":")
		if !ok {
			return nil, fmt.Errorf("turn %q is not role:content", r)
		}
		turns = append(turns, models.ConversationTurn{Role: models.Role(strings.TrimSpace(role)), Content: strings.TrimSpace(content)})
	}
	return turns, nil
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Summarize the records relevant to a search query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.build(cmd)
			if err != nil {
				return err
			}
			summary, err := s.Orchestrator.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), summary)
		},
	}
}

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <message>",
		Short: "Show whether a message is treated as a broad or targeted query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.print(cmd.OutOrStdout(), classifier.Classify(strings.Join(args, " ")))
		},
	}
}

func newContextCmd(a *app) *cobra.Command {
	var sections bool

	cmd := &cobra.Command{
		Use:   "context <message>",
		Short: "Print the database context block the model would see",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.recordStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			rcfg := retriever.DefaultConfig()
			if a.cfg != nil {
				as := a.cfg.Assistant
				rcfg = retriever.Config{
					TargetedLimit: as.TargetedLimit,
					BroadLimit:    as.BroadLimit,
					ReportLimit:   as.ReportLimit,
					QueryTimeout:  config.GetDuration(as.RetrievalTimeout),
				}
			}

			query := classifier.Classify(strings.Join(args, " "))
			block := contextblock.Serialize(retriever.New(store, rcfg, a.logFor()).Retrieve(cmd.Context(), query))

			if !sections {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), block.String())
				return err
			}
			type row struct {
				Kind        string `json:"kind" yaml:"kind"`
				Count       int    `json:"count" yaml:"count"`
				Truncated   bool   `json:"truncated" yaml:"truncated"`
				Unavailable bool   `json:"unavailable" yaml:"unavailable"`
			}
			rows := make([]row, 0, len(block.Sections))
			for _, s := range block.Sections {
				rows = append(rows, row{Kind: string(s.Kind), Count: s.Count, Truncated: s.Truncated, Unavailable: s.Unavailable})
			}
			return a.print(cmd.OutOrStdout(), map[string]interface{}{
				"isBroad":  query.IsBroad,
				"total":    block.Total,
				"sections": rows,
			})
		},
	}
	cmd.Flags().BoolVar(&sections, "sections", false, "print per-section counts instead of the rendered block")
	return cmd
}

func newSlugifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "slugify <title>",
		Short: "Derive the URL slug for a blog title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), generator.Slugify(strings.Join(args, " ")))
			return err
		},
	}
}
