package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"mocktest-engine/internal/app"
	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/validation"

	"github.com/spf13/cobra"
)

func newBlueprintCmd(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blueprint",
		Short: "Manage blueprints",
	}

	var file string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a blueprint from a JSON file",
		RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
			r, closeFn, err := openInput(cmd, file)
			if err != nil {
				return err
			}
			defer closeFn()

			var req dto.CreateBlueprintRequest
			if err := json.NewDecoder(r).Decode(&req); err != nil {
				return fmt.Errorf("failed to decode blueprint: %w", err)
			}
			if errs := validation.NewValidator().ValidateCreateBlueprintRequest(&req); len(errs) > 0 {
				return errs
			}
			res, err := a.Exams.CreateBlueprint(cmd.Context(), &req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	create.Flags().StringVar(&file, "file", "", "blueprint JSON file, - for stdin")
	_ = create.MarkFlagRequired("file")

	var id string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print a blueprint",
		RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
			res, err := a.Exams.GetBlueprint(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	show.Flags().StringVar(&id, "id", "", "blueprint id")
	_ = show.MarkFlagRequired("id")

	cmd.AddCommand(create, show)
	return cmd
}

func newGenerateCmd(withApp appRunner) *cobra.Command {
	var blueprintID string
	var showExam bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new exam from a blueprint",
		RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
			res, err := a.Exams.Generate(cmd.Context(), blueprintID)
			if err != nil {
				return err
			}
			if !showExam {
				return printJSON(cmd.OutOrStdout(), res)
			}
			exam, err := a.Exams.GetExam(cmd.Context(), res.ExamID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), exam)
		}),
	}
	cmd.Flags().StringVar(&blueprintID, "blueprint", "", "blueprint id")
	cmd.Flags().BoolVar(&showExam, "show", false, "print the full exam instead of the summary")
	_ = cmd.MarkFlagRequired("blueprint")
	return cmd
}

func newRankTableCmd(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank-table",
		Short: "Upload rank tables and predict ranks",
	}

	var uploadExam, file string
	upload := &cobra.Command{
		Use:   "upload",
		Short: "Replace an exam's marks-to-rank table",
		RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
			r, closeFn, err := openInput(cmd, file)
			if err != nil {
				return err
			}
			defer closeFn()
			res, err := a.Ranks.Upload(cmd.Context(), uploadExam, r)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	upload.Flags().StringVar(&uploadExam, "exam", "", "exam id")
	upload.Flags().StringVar(&file, "file", "", "delimited marks,rank file, - for stdin")
	_ = upload.MarkFlagRequired("exam")
	_ = upload.MarkFlagRequired("file")

	var predictExam, score string
	predict := &cobra.Command{
		Use:   "predict",
		Short: "Predict the rank for a score",
		RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
			parsed, errs := validation.NewValidator().ParseScore(score)
			if len(errs) > 0 {
				return errs
			}
			res, err := a.Ranks.PredictRank(cmd.Context(), predictExam, parsed)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	predict.Flags().StringVar(&predictExam, "exam", "", "exam id")
	predict.Flags().StringVar(&score, "score", "", "score to place")
	_ = predict.MarkFlagRequired("exam")
	_ = predict.MarkFlagRequired("score")

	cmd.AddCommand(upload, predict)
	return cmd
}

func newLeaderboardCmd(withApp appRunner) *cobra.Command {
	var req dto.LeaderboardRequest
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the ranked first attempts of a course",
		RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
			if errs := validation.NewValidator().ValidateLeaderboardRequest(&req); len(errs) > 0 {
				return errs
			}
			res, err := a.Leaderboard.Rank(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	cmd.Flags().StringVar(&req.CourseID, "course", "", "course id")
	cmd.Flags().StringVar(&req.SubjectID, "subject", "", "restrict to one subject")
	cmd.Flags().StringVar(&req.TenantID, "tenant", "", "restrict to one tenant")
	cmd.Flags().IntVar(&req.Limit, "limit", 0, "maximum entries, 0 for all")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

// openInput opens path, or the command's stdin for "-".
func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, domain.NewInvalidInputError(fmt.Sprintf("cannot open %s: %v", path, err))
	}
	return f, func() { f.Close() }, nil
}
