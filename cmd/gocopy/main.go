// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/navwar/gocopy/pkg/fs"
	"github.com/navwar/gocopy/pkg/lfs"
	"github.com/navwar/gocopy/pkg/log"
	"github.com/navwar/gocopy/pkg/s3fs"
	"github.com/navwar/gocopy/pkg/ts"
)

const (
	GoCopyVersion = "0.0.1"
)

const (
	GoCopyUsage = "Usage: gocopy <source_directory> <destination_directory> <file1> [<file2> ...]"
)

// AWS Flags
const (
	// Profile
	flagAWSProfile       = "aws-profile"
	flagAWSDefaultRegion = "aws-default-region"
	flagAWSRegion        = "aws-region"
	// Credentials
	flagAWSAccessKeyID     = "aws-access-key-id"
	flagAWSSecretAccessKey = "aws-secret-access-key"
	flagAWSSessionToken    = "aws-session-token"
	// Client
	flagAWSRetryMaxAttempts = "aws-retry-max-attempts"
	// TLS
	flagAWSInsecureSkipVerify = "aws-insecure-skip-verify"
	// Miscellaneous
	flagAWSS3Endpoint     = "aws-s3-endpoint"
	flagAWSS3UsePathStyle = "aws-s3-use-path-style"
	flagBucketKeyEnabled  = "aws-bucket-key-enabled"
)

// Debug Flag
const (
	flagDebug = "debug"
)

// Copy Flags
const (
	flagDirMode = "dir-mode"
)

// Copy Defaults
const (
	DefaultDirMode = "0755"
)

// Log Flags
const (
	flagLogPath            = "log-path"
	flagLogPerm            = "log-perm"
	flagLogTimeLayout      = "log-time-layout"
	flagLogTimeZone        = "log-time-zone"
	flagLogClientSigning   = "log-client-signing"
	flagLogClientRequests  = "log-client-requests"
	flagLogClientResponses = "log-client-responses"
	flagLogClientRetries   = "log-client-retries"
)

// initAWSFlags initializes the AWS flags.
func initAWSFlags(flag *pflag.FlagSet) {
	// Profile
	flag.String(flagAWSProfile, "default", "AWS Profile")
	flag.String(flagAWSDefaultRegion, "", "AWS Default Region")
	flag.String(flagAWSRegion, "", "AWS Region (overrides default region)")
	// Credentials
	flag.String(flagAWSAccessKeyID, "", "AWS Access Key ID")
	flag.String(flagAWSSecretAccessKey, "", "AWS Secret Access Key")
	flag.String(flagAWSSessionToken, "", "AWS Session Token")
	// Client
	flag.Int(flagAWSRetryMaxAttempts, 5, "the maximum number attempts an AWS API client will call an operation that fails with a retryable error.")
	// TLS
	flag.Bool(flagAWSInsecureSkipVerify, false, "Skip verification of AWS TLS certificate")
	// Miscellaneous
	flag.String(flagAWSS3Endpoint, "", "AWS S3 Endpoint URL")
	flag.Bool(flagAWSS3UsePathStyle, false, "Use path-style addressing (default is to use virtual-host-style addressing)")
	flag.Bool(flagBucketKeyEnabled, false, "bucket key enabled")
}

func initDebugFlags(flag *pflag.FlagSet) {
	flag.BoolP(flagDebug, "d", false, "print debug messages")
}

func initCopyFlags(flag *pflag.FlagSet) {
	flag.String(flagDirMode, DefaultDirMode, "file permissions for created destination directories as unix file mode.")
}

func initLogFlags(flag *pflag.FlagSet) {
	flag.String(flagLogPath, "-", "path to the log output.  Defaults to the operating system's stdout device.")
	flag.String(flagLogPerm, "0600", "file permissions for log output file as unix file mode.")
	flag.StringP(flagLogTimeLayout, "t", "RFC3339", "the layout to use for log timestamps.  Use go layout format, or the name of a layout.")
	flag.StringP(flagLogTimeZone, "z", "Local", "the timezone to use for log timestamps")
	flag.Bool(flagLogClientSigning, false, "log AWS client signature requests")
	flag.Bool(flagLogClientRequests, false, "log AWS client requests")
	flag.Bool(flagLogClientResponses, false, "log AWS client responses")
	flag.Bool(flagLogClientRetries, false, "log AWS client retries")
}

func initCopyCommandFlags(flag *pflag.FlagSet) {
	initDebugFlags(flag)
	initAWSFlags(flag)
	initCopyFlags(flag)
	initLogFlags(flag)
}

func initViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return v, fmt.Errorf("error binding flag set to viper: %w", err)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // set environment variables to overwrite config
	return v, nil
}

func checkAWSConfig(v *viper.Viper, args []string) error {
	retryMaxAttempts := v.GetInt(flagAWSRetryMaxAttempts)
	if retryMaxAttempts < 1 {
		return fmt.Errorf("%q value %d is invalid, expecting value greater than or equal to 1", flagAWSRetryMaxAttempts, retryMaxAttempts)
	}
	return nil
}

func checkLogConfig(v *viper.Viper, args []string) error {
	logPath := v.GetString(flagLogPath)
	if len(logPath) == 0 {
		return fmt.Errorf("log path is missing")
	}
	logPerm := v.GetString(flagLogPerm)
	if len(logPerm) == 0 {
		return fmt.Errorf("log perm is missing")
	}
	_, err := strconv.ParseUint(logPerm, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid format for log perm: %s", logPerm)
	}
	if _, err := ts.ParseLocation(v.GetString(flagLogTimeZone)); err != nil {
		return fmt.Errorf("error parsing time zone location %q: %w", v.GetString(flagLogTimeZone), err)
	}
	return nil
}

// normalizeDirectory returns the canonical form of the directory uri for comparison.
// Local paths are cleaned, so "/src/", "/src", and "file:///src" compare equal.
func normalizeDirectory(uri string) string {
	if strings.HasPrefix(uri, "s3://") {
		return uri
	}
	return filepath.Clean(strings.TrimPrefix(uri, "file://"))
}

func checkCopyConfig(v *viper.Viper, args []string) error {
	source := normalizeDirectory(args[0])
	destination := normalizeDirectory(args[1])
	// copying a file onto itself through a truncating open would destroy it
	if source == destination {
		return fmt.Errorf("source and destination must be different: %q", args[0])
	}
	dirMode := v.GetString(flagDirMode)
	if len(dirMode) == 0 {
		return fmt.Errorf("dir mode is missing")
	}
	if _, err := strconv.ParseUint(dirMode, 8, 32); err != nil {
		return fmt.Errorf("invalid format for dir mode: %s", dirMode)
	}
	if err := checkAWSConfig(v, args); err != nil {
		return fmt.Errorf("error with AWS configuration: %w", err)
	}
	if err := checkLogConfig(v, args); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	return nil
}

type InitS3ClientInput struct {
	Profile string
	Region  string
	// AWS Client
	Endpoint           string
	InsecureSkipVerify bool
	RetryMaxAttempts   int
	UsePathStyle       bool
	// AWS Credentials
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	// Client Log Mode
	LogClientSigning   bool
	LogClientRetries   bool
	LogClientRequests  bool
	LogClientResponses bool
}

func InitS3Client(ctx context.Context, input *InitS3ClientInput) *s3.Client {
	clientLogMode := aws.ClientLogMode(0)
	if input.LogClientSigning {
		clientLogMode |= aws.LogSigning
	}
	if input.LogClientRetries {
		clientLogMode |= aws.LogRetries
	}
	if input.LogClientRequests {
		clientLogMode |= aws.LogRequest
	}
	if input.LogClientResponses {
		clientLogMode |= aws.LogResponse
	}

	c := aws.Config{
		ClientLogMode:    clientLogMode,
		RetryMaxAttempts: input.RetryMaxAttempts,
		Region:           input.Region,
		Logger:           log.NewClientLogger(os.Stdout),
	}

	if len(input.AccessKeyID) > 0 && len(input.SecretAccessKey) > 0 {
		c.Credentials = credentials.NewStaticCredentialsProvider(
			input.AccessKeyID,
			input.SecretAccessKey,
			input.SessionToken)
	} else {
		sharedConfig, err := config.LoadSharedConfigProfile(ctx, input.Profile)
		if err == nil {
			c.Credentials = credentials.NewStaticCredentialsProvider(
				sharedConfig.Credentials.AccessKeyID,
				sharedConfig.Credentials.SecretAccessKey,
				"")
		}
	}

	if input.InsecureSkipVerify {
		c.HTTPClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			},
		}
	}

	client := s3.NewFromConfig(c, func(o *s3.Options) {
		o.UsePathStyle = input.UsePathStyle
		if len(input.Endpoint) > 0 {
			o.BaseEndpoint = aws.String(input.Endpoint)
		}
	})

	return client
}

// initFileSystem returns the file system for the URI and the directory
// within that file system that the URI refers to.
func initFileSystem(ctx context.Context, v *viper.Viper, uri string, region string) (fs.FileSystem, string) {
	if strings.HasPrefix(uri, "s3://") {
		client := InitS3Client(ctx, &InitS3ClientInput{
			Profile: v.GetString(flagAWSProfile),
			Region:  region,
			// AWS Client
			Endpoint:           v.GetString(flagAWSS3Endpoint),
			InsecureSkipVerify: v.GetBool(flagAWSInsecureSkipVerify),
			RetryMaxAttempts:   v.GetInt(flagAWSRetryMaxAttempts),
			UsePathStyle:       v.GetBool(flagAWSS3UsePathStyle),
			// AWS Credentials
			AccessKeyID:     v.GetString(flagAWSAccessKeyID),
			SecretAccessKey: v.GetString(flagAWSSecretAccessKey),
			SessionToken:    v.GetString(flagAWSSessionToken),
			// Client Mode
			LogClientSigning:   v.GetBool(flagLogClientSigning),
			LogClientRetries:   v.GetBool(flagLogClientRetries),
			LogClientRequests:  v.GetBool(flagLogClientRequests),
			LogClientResponses: v.GetBool(flagLogClientResponses),
		})
		directory := path.Join(s3fs.Split(uri[len("s3://"):])...)
		return s3fs.NewS3FileSystem(client, region, v.GetBool(flagBucketKeyEnabled)), directory
	}
	if strings.HasPrefix(uri, "file://") {
		uri = uri[len("file://"):]
	}
	return lfs.NewLocalFileSystem(), uri
}

func initLogger(v *viper.Viper) (*log.SimpleLogger, error) {

	layout := ts.ParseLayout(v.GetString(flagLogTimeLayout))

	location, err := ts.ParseLocation(v.GetString(flagLogTimeZone))
	if err != nil {
		return nil, fmt.Errorf("error parsing time zone location %q: %w", v.GetString(flagLogTimeZone), err)
	}

	logPath := v.GetString(flagLogPath)

	if logPath == os.DevNull {
		return log.NewTimestampLogger(io.Discard, layout, location), nil
	}

	if logPath == "-" {
		return log.NewTimestampLogger(os.Stdout, layout, location), nil
	}

	fileMode := os.FileMode(0600)

	if perm := v.GetString(flagLogPerm); len(perm) > 0 {
		fm, err := strconv.ParseUint(perm, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("error parsing file permissions for log file from %q", perm)
		}
		fileMode = os.FileMode(fm)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("error opening log file %q: %w", logPath, err)
	}

	return log.NewTimestampLogger(f, layout, location), nil
}

func main() {
	rootCommand := &cobra.Command{
		Use:                   `gocopy SOURCE DESTINATION FILE [FILE...]`,
		DisableFlagsInUseLine: true,
		Short: strings.Join([]string{
			"gocopy is a simple command line program for copying a list of named files from a source directory to a destination directory.",
			"The destination directory is created if it does not exist.",
			"Each file is resolved by its base name; any directory components in a given file name are stripped.",
			"Local directories are specified using the \"file://\" scheme or a path without a scheme.",
			"S3 directories are specified using the \"s3://\" scheme.",
		}, "\n"),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			if len(args) < 3 {
				fmt.Println(GoCopyUsage)
				os.Exit(1)
			}

			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}

			if errConfig := checkCopyConfig(v, args); errConfig != nil {
				return errConfig
			}

			debug := v.GetBool(flagDebug)

			logger, err := initLogger(v)
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}

			sourceURI := args[0]
			destinationURI := args[1]
			fileNames := args[2:]

			region := v.GetString(flagAWSRegion)
			if len(region) == 0 {
				region = v.GetString(flagAWSDefaultRegion)
			}

			// if neither region nor default region is specified
			if len(region) == 0 {
				if strings.HasPrefix(sourceURI, "s3://") || strings.HasPrefix(destinationURI, "s3://") {
					profile := v.GetString(flagAWSProfile)
					if len(profile) == 0 {
						profile = "default"
					}
					sharedConfig, loadSharedConfigProfileError := config.LoadSharedConfigProfile(ctx, profile)
					if loadSharedConfigProfileError == nil {
						region = sharedConfig.Region
					}
				}
			}

			dirMode := os.FileMode(0755)
			if dm, parseUintError := strconv.ParseUint(v.GetString(flagDirMode), 8, 32); parseUintError == nil {
				dirMode = os.FileMode(dm)
			}

			sourceFileSystem, sourceDirectory := initFileSystem(ctx, v, sourceURI, region)
			destinationFileSystem, destinationDirectory := initFileSystem(ctx, v, destinationURI, region)

			if debug {
				_ = logger.Log("Copying files", map[string]interface{}{
					"source":      sourceURI,
					"destination": destinationURI,
					"files":       len(fileNames),
					"dir_mode":    dirMode.String(),
				})
			}

			var copyLogger fs.Logger
			if debug {
				copyLogger = logger
			}

			count, copyError := fs.CopyFiles(ctx, &fs.CopyFilesInput{
				SourceDirectory:       sourceDirectory,
				SourceFileSystem:      sourceFileSystem,
				DestinationDirectory:  destinationDirectory,
				DestinationFileSystem: destinationFileSystem,
				FileNames:             fileNames,
				DirectoryMode:         dirMode,
				Logger:                copyLogger,
			})
			if copyError != nil {
				_ = logger.Log("Error copying files", map[string]interface{}{
					"source":      sourceURI,
					"destination": destinationURI,
					"copied":      count,
					"err":         copyError.Error(),
				})
				os.Exit(1)
			}

			_ = logger.Log("Done copying files", map[string]interface{}{
				"source":      sourceURI,
				"destination": destinationURI,
				"files":       count,
			})

			return nil

		},
	}
	initCopyCommandFlags(rootCommand.Flags())

	schemesCommand := &cobra.Command{
		Use:                   `schemes`,
		DisableFlagsInUseLine: true,
		Short:                 "show supported schemes",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("file")
			fmt.Println("s3")
			return nil
		},
	}

	versionCommand := &cobra.Command{
		Use:                   `version`,
		DisableFlagsInUseLine: true,
		Short:                 "show version",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(GoCopyVersion)
			return nil
		},
	}

	rootCommand.AddCommand(schemesCommand, versionCommand)

	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gocopy: "+err.Error())
		fmt.Fprintln(os.Stderr, "Try \"gocopy --help\" for more information.")
		os.Exit(1)
	}
}
