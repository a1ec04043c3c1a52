package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bitsa-assistant/internal/assistant/generator"
	"bitsa-assistant/internal/audit"
	"bitsa-assistant/internal/models"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate club content with the language model",
	}
	cmd.AddCommand(
		newGenerateBlogCmd(a),
		newGenerateTranslateCmd(a),
		newGenerateFeedbackCmd(a),
		newGenerateEventCmd(a),
	)
	return cmd
}

func newGenerateBlogCmd(a *app) *cobra.Command {
	var req generator.BlogRequest

	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Draft a blog post",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.build(cmd)
			if err != nil {
				return err
			}
			draft, err := s.Generator.GenerateBlogContent(cmd.Context(), req)
			if err != nil {
				return err
			}
			s.Audit.Record(cmd.Context(), audit.NewEvent(audit.ActionCreate, "Generated blog content: "+draft.Title, map[string]interface{}{
				"topic":    req.Topic,
				"category": req.Category,
				"language": req.Language,
			}))
			return a.print(cmd.OutOrStdout(), draft)
		},
	}
	cmd.Flags().StringVar(&req.Topic, "topic", "", "blog topic")
	cmd.Flags().StringVar(&req.Category, "category", "", "blog category")
	cmd.Flags().StringVar(&req.Language, "language", "", "output language code (default en)")
	cmd.Flags().StringVar(&req.Tone, "tone", "", "professional, casual or academic")
	return cmd
}

func newGenerateTranslateCmd(a *app) *cobra.Command {
	var req generator.TranslateRequest

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate a title and body",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.build(cmd)
			if err != nil {
				return err
			}
			req.TargetLanguage = models.NormalizeLanguage(req.TargetLanguage)
			if req.TargetLanguage != "" && !models.IsSupportedLanguage(req.TargetLanguage) {
				return errors.New(models.InvalidLanguageMessage())
			}
			out, err := s.Generator.Translate(cmd.Context(), req)
			if err != nil {
				return err
			}
			s.Audit.Record(cmd.Context(), audit.NewEvent(audit.ActionOther, "Translated content to "+req.TargetLanguage, map[string]interface{}{
				"targetLanguage": req.TargetLanguage,
				"originalTitle":  req.Title,
			}))
			return a.print(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "title to translate")
	cmd.Flags().StringVar(&req.Body, "body", "", "body to translate")
	cmd.Flags().StringVar(&req.TargetLanguage, "to", "", "target language code")
	return cmd
}

func newGenerateFeedbackCmd(a *app) *cobra.Command {
	var req generator.FeedbackRequest

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Review a student project",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.build(cmd)
			if err != nil {
				return err
			}
			out, err := s.Generator.ProjectFeedback(cmd.Context(), req)
			if err != nil {
				return err
			}
			s.Audit.Record(cmd.Context(), audit.NewEvent(audit.ActionOther, "Generated feedback for project: "+req.Title, nil))
			return a.print(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "project title")
	cmd.Flags().StringVar(&req.Description, "description", "", "project description")
	cmd.Flags().StringVar(&req.TechStack, "tech-stack", "", "technologies used")
	return cmd
}

func newGenerateEventCmd(a *app) *cobra.Command {
	var req generator.EventRequest

	cmd := &cobra.Command{
		Use:   "event",
		Short: "Write an event description",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.build(cmd)
			if err != nil {
				return err
			}
			text, err := s.Generator.EventDescription(cmd.Context(), req)
			if err != nil {
				return err
			}
			s.Audit.Record(cmd.Context(), audit.NewEvent(audit.ActionCreate, "Generated event description: "+req.Title, nil))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "event title")
	cmd.Flags().StringVar(&req.Type, "type", "", "event type, e.g. workshop")
	cmd.Flags().StringVar(&req.Audience, "audience", "", "target audience")
	cmd.Flags().StringVar(&req.Language, "language", "", "output language code (default en)")
	return cmd
}
