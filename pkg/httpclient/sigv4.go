package httpclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// SigV4Config configures AWS Signature Version 4 request signing.
type SigV4Config struct {
	// Service is the AWS service name to sign for (e.g. "execute-api", "s3").
	// Required.
	Service string

	// Region is the AWS region (e.g. "us-east-1"). Required.
	Region string

	// Base is the transport that executes the signed request.
	// Defaults to http.DefaultTransport.
	Base http.RoundTripper
}

// Validate checks the configuration is valid.
func (c *SigV4Config) Validate() error {
	if c.Service == "" {
		return fmt.Errorf("service is required for sigv4 signing")
	}
	if c.Region == "" {
		return fmt.Errorf("region is required for sigv4 signing")
	}
	return nil
}

// SigV4Transport signs outbound requests with AWS SigV4 before delegating to
// the base transport. Credentials come from the default AWS chain
// (environment, shared config, IMDS) and are cached by the SDK's provider.
type SigV4Transport struct {
	base    http.RoundTripper
	service string
	region  string
	creds   aws.CredentialsProvider
	signer  *v4.Signer
}

// NewSigV4Transport loads the default AWS credential chain for cfg.Region and
// verifies it with an STS GetCallerIdentity call before returning the signing
// transport, so misconfigured credentials fail at construction rather than on
// the first API request.
func NewSigV4Transport(ctx context.Context, cfg SigV4Config) (*SigV4Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	validationCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	stsClient := sts.NewFromConfig(awsCfg)
	if _, err := stsClient.GetCallerIdentity(validationCtx, &sts.GetCallerIdentityInput{}); err != nil {
		return nil, fmt.Errorf("AWS credential validation failed: %w", err)
	}

	base := cfg.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return &SigV4Transport{
		base:    base,
		service: cfg.Service,
		region:  cfg.Region,
		creds:   awsCfg.Credentials,
		signer:  v4.NewSigner(),
	}, nil
}

// RoundTrip implements http.RoundTripper.
// The request is cloned before signing; the caller's request is not modified.
func (t *SigV4Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	signed := req.Clone(req.Context())

	body, err := requestBody(signed)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body for signing: %w", err)
	}
	hash := payloadHash(body)
	signed.Header.Set("X-Amz-Content-Sha256", hash)
	if body != nil {
		signed.Body = io.NopCloser(bytes.NewReader(body))
		signed.ContentLength = int64(len(body))
	}

	creds, err := t.creds.Retrieve(req.Context())
	if err != nil {
		return nil, fmt.Errorf("unable to resolve AWS credentials: %w", err)
	}

	if err := t.signer.SignHTTP(req.Context(), creds, signed, hash, t.service, t.region, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	return t.base.RoundTrip(signed)
}

// requestBody drains and returns the request body so its hash can be signed.
// GetBody is preferred when present; it leaves the original request re-sendable.
func requestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		rc, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	defer req.Body.Close()
	return io.ReadAll(req.Body)
}

// payloadHash computes the hex SHA256 of the request body.
// A nil body hashes as the empty payload, matching the SigV4 spec.
func payloadHash(body []byte) string {
	if body == nil {
		body = []byte{}
	}
	hash := sha256.Sum256(body)
	return hex.EncodeToString(hash[:])
}
