package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"easel/internal/queue"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var aspectRatio string
	var resolution string
	var variants int
	var seed int64
	var temperature float64
	var references []string

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Queue an image generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := payloadsFromFiles(references)
			if err != nil {
				return err
			}
			req := queue.ImageRequest{
				Prompt:          args[0],
				AspectRatio:     aspectRatio,
				ResolutionTier:  resolution,
				ReferenceImages: refs,
				VariantCount:    variants,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &temperature
			}
			return submitImage(cmd, ctx, req)
		},
	}

	cmd.Flags().StringVar(&aspectRatio, "aspect", "", "Aspect ratio, e.g. 16:9")
	cmd.Flags().StringVar(&resolution, "resolution", "", "Resolution tier, e.g. 1k or 2k")
	cmd.Flags().IntVarP(&variants, "variants", "n", 1, "Number of image variants to request")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Deterministic generation seed")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "Sampling temperature")
	cmd.Flags().StringSliceVarP(&references, "reference", "r", nil, "Reference image file (repeatable)")
	return cmd
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var originalPath string
	var maskPath string
	var variants int
	var seed int64
	var temperature float64
	var references []string

	cmd := &cobra.Command{
		Use:   "edit <instruction>",
		Short: "Queue an image edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			original, err := payloadFromFile(originalPath)
			if err != nil {
				return err
			}
			mask, err := payloadFromFile(maskPath)
			if err != nil {
				return err
			}
			refs, err := payloadsFromFiles(references)
			if err != nil {
				return err
			}
			req := queue.ImageRequest{
				Prompt:          args[0],
				OriginalImage:   original,
				MaskImage:       mask,
				ReferenceImages: refs,
				VariantCount:    variants,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &temperature
			}
			return submitImage(cmd, ctx, req)
		},
	}

	cmd.Flags().StringVarP(&originalPath, "original", "o", "", "Image file to edit (required)")
	cmd.Flags().StringVarP(&maskPath, "mask", "m", "", "Mask image restricting the edited region")
	cmd.Flags().IntVarP(&variants, "variants", "n", 1, "Number of edit variants to request")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Deterministic generation seed")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "Sampling temperature")
	cmd.Flags().StringSliceVarP(&references, "reference", "r", nil, "Reference image file (repeatable)")
	_ = cmd.MarkFlagRequired("original")
	return cmd
}

func newVideoCommand(ctx *commandContext) *cobra.Command {
	var negativePrompt string
	var aspectRatio string
	var resolution string
	var duration int
	var seed int64
	var startFramePath string
	var lastFramePath string
	var sourceVideoPath string
	var references []string

	cmd := &cobra.Command{
		Use:   "video <prompt>",
		Short: "Queue a video generation or extension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startFrame, err := payloadFromFile(startFramePath)
			if err != nil {
				return err
			}
			lastFrame, err := payloadFromFile(lastFramePath)
			if err != nil {
				return err
			}
			sourceVideo, err := payloadFromFile(sourceVideoPath)
			if err != nil {
				return err
			}
			refs, err := payloadsFromFiles(references)
			if err != nil {
				return err
			}
			req := queue.VideoRequest{
				Prompt:          args[0],
				NegativePrompt:  negativePrompt,
				AspectRatio:     aspectRatio,
				Resolution:      resolution,
				DurationSeconds: duration,
				StartFrameImage: startFrame,
				LastFrameImage:  lastFrame,
				SourceVideo:     sourceVideo,
				ReferenceImages: refs,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			return submitVideo(cmd, ctx, req)
		},
	}

	cmd.Flags().StringVar(&negativePrompt, "negative", "", "Negative prompt describing what to avoid")
	cmd.Flags().StringVar(&aspectRatio, "aspect", "", "Aspect ratio, e.g. 16:9")
	cmd.Flags().StringVar(&resolution, "resolution", "", "Output resolution, e.g. 720p or 1080p")
	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "Clip duration in seconds")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Deterministic generation seed")
	cmd.Flags().StringVar(&startFramePath, "start-frame", "", "Image file used as the first frame")
	cmd.Flags().StringVar(&lastFramePath, "last-frame", "", "Image file used as the last frame")
	cmd.Flags().StringVar(&sourceVideoPath, "source-video", "", "Video file to extend instead of generating from scratch")
	cmd.Flags().StringSliceVarP(&references, "reference", "r", nil, "Reference image file (repeatable)")
	return cmd
}

// submitImage persists and submits the request through a local manager over
// the shared store. The record id is printed so the result can be tracked
// with `easel queue show`; the daemon picks the record up on its next sweep.
func submitImage(cmd *cobra.Command, ctx *commandContext, req queue.ImageRequest) error {
	mgr, cleanup, err := ctx.buildManager()
	if err != nil {
		return err
	}
	defer cleanup()
	id, err := mgr.CreateAndSubmitImage(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Queued image job %s\n", id)
	return nil
}

func submitVideo(cmd *cobra.Command, ctx *commandContext, req queue.VideoRequest) error {
	mgr, cleanup, err := ctx.buildManager()
	if err != nil {
		return err
	}
	defer cleanup()
	id, err := mgr.CreateAndSubmitVideo(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Queued video job %s\n", id)
	return nil
}
