package main

import (
	"context"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/filament-ui/filament/pkg/export"
)

func exportCmd() *cobra.Command {
	var (
		out    string
		title  string
		bucket string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the demo app to static HTML",
		Long: `Render the built-in demo application to a static HTML snapshot.
Writes to a file by default; with --bucket the page is published to S3
using the ambient AWS credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			html := export.Page(title, export.Snapshot(demoApp()))

			if bucket != "" {
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()

				cfg, err := awsconfig.LoadDefaultConfig(ctx)
				if err != nil {
					return fmt.Errorf("load aws config: %w", err)
				}

				pub := export.NewS3Publisher(s3.NewFromConfig(cfg), bucket, prefix)
				if err := pub.Publish(ctx, out, html); err != nil {
					return err
				}
				success("published %s to s3://%s/%s%s", out, bucket, prefix, out)
				return nil
			}

			if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			success("wrote %s (%d bytes)", out, len(html))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "index.html", "Output file name (and S3 key)")
	cmd.Flags().StringVarP(&title, "title", "t", "Filament", "Page title")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Publish to this S3 bucket instead of a file")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix when publishing to S3")

	return cmd
}
