package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/integrations/imagegen"
)

// mockupCommand creates the mockup command.
func (c *CLI) mockupCommand() *cobra.Command {
	var (
		opts    imagegen.Options
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "mockup <vehicle-photo>",
		Short: "Generate a photorealistic wrap mockup",
		Long: fmt.Sprintf(`Send a vehicle photo and a description of the wrap to the image
generation service and print the URL of the generated mockup.

The service is configured with imagegen.endpoint, imagegen.api_key and
imagegen.model (or WRAPDOC_IMAGEGEN_* variables).

Lighting presets:   %s
Background presets: %s
Angle presets:      %s`,
			strings.Join(imagegen.Lightings(), ", "),
			strings.Join(imagegen.Backgrounds(), ", "),
			strings.Join(imagegen.Angles(), ", ")),
		Example: `  wrapdoc mockup van.jpg --prompt "matte black with gold pinstripe"
  wrapdoc mockup van.jpg --prompt "fleet livery" --lighting golden_hour --angle side`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMockup(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "prompt", "p", "", "description of the wrap design")
	cmd.Flags().StringVar(&opts.Lighting, "lighting", "showroom", "lighting preset")
	cmd.Flags().StringVar(&opts.Background, "background", "studio", "background preset")
	cmd.Flags().StringVar(&opts.Angle, "angle", "original", "camera angle preset")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always request a new mockup")

	return cmd
}

func (c *CLI) runMockup(ctx context.Context, photo string, opts imagegen.Options, noCache bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	image, err := os.ReadFile(photo)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeFileNotFound, "photo %s not found", photo)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read photo %s", photo)
	}

	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := imagegen.NewClient(imagegen.Config{
		Endpoint: cfg.ImageGen.Endpoint,
		APIKey:   cfg.ImageGen.APIKey,
		Model:    cfg.ImageGen.Model,
		Timeout:  cfg.ImageGen.Timeout,
	}, store, logger)
	if err != nil {
		return err
	}

	prompt := imagegen.BuildPrompt(opts)
	logger.Debug("mockup prompt", "prompt", prompt)

	spin := startSpinner(ctx, os.Stderr, "Generating mockup...")
	res, err := client.Generate(ctx, imagegen.Request{Prompt: prompt, Image: image})
	spin.finish(res, err)
	if errors.Is(err, errors.ErrCodeExternalService) {
		printNextStep("Try again later or check the service status", "wrapdoc mockup "+photo)
		return nil
	}
	return err
}
