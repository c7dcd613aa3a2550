package main

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/skiff-dev/skiff/internal/errors"
)

func deployCmd() *cobra.Command {
	var (
		bucket       string
		prefix       string
		region       string
		dir          string
		manifestPath string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the app directory to S3",
		Long: `Walk the app directory and upload every file to an S3 bucket.

Objects are keyed by their path relative to the app directory, under
the optional key prefix. Content types are derived from file
extensions. Credentials and region come from the default AWS config
chain; --region overrides the resolved region.

Examples:
  skiff deploy --bucket=my-app-assets
  skiff deploy --bucket=my-app-assets --prefix=app/ --region=eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd.Context(), bucket, prefix, region, dir, manifestPath)
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket (default from skiff.yaml)")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Key prefix within the bucket")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region override")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "App directory to upload (default from skiff.yaml)")
	cmd.Flags().StringVarP(&manifestPath, "config", "c", "", "Path to skiff.yaml")

	return cmd
}

func runDeploy(ctx context.Context, bucket, prefix, region, dir, manifestPath string) error {
	cfg, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}

	if bucket == "" {
		bucket = cfg.Deploy.Bucket
	}
	if bucket == "" {
		return errors.New("L140").
			WithDetail("no bucket configured").
			WithSuggestion("Pass --bucket or set deploy.bucket in skiff.yaml")
	}
	if prefix == "" {
		prefix = cfg.Deploy.Prefix
	}
	if region == "" {
		region = cfg.Deploy.Region
	}
	if dir == "" {
		dir = cfg.AppDir()
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.New("L141").WithDetailf("dir: %s", dir)
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return errors.New("L140").
			WithDetail("could not load AWS configuration").
			Wrap(err)
	}
	client := s3.NewFromConfig(awsCfg)

	printBanner()
	info("Deploying %s to s3://%s/%s", dir, bucket, prefix)

	start := time.Now()
	uploaded := 0

	err = filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := prefix + filepath.ToSlash(rel)

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        f,
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return errors.New("L140").
				WithDetailf("uploading %s", key).
				Wrap(err)
		}

		uploaded++
		info("uploaded %s", key)
		return nil
	})
	if err != nil {
		if se, ok := err.(*errors.SkiffError); ok {
			return se
		}
		return errors.New("L140").Wrap(err)
	}

	success("Deployed %d files in %s", uploaded, time.Since(start).Round(time.Millisecond))
	if !strings.HasSuffix(prefix, "/") && prefix != "" {
		warn("prefix %q has no trailing slash; keys are joined verbatim", prefix)
	}
	return nil
}
