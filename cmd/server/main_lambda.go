//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"irp-verifier/internal/adapters/benchmark"
	"irp-verifier/internal/api/dto"
	"irp-verifier/internal/domain"
	"irp-verifier/internal/parse"
	"irp-verifier/internal/ports"
	"irp-verifier/internal/services"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// handler serves one verification per invocation. The lambda build carries
// no database; marks come from the request's benchmark_score or the
// BENCHMARK_SCORE environment variable, falling back to an uncached table
// fetch.
func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req dto.VerificationRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(400, "invalid JSON: "+err.Error())
	}

	name := strings.TrimSpace(req.InstanceName)
	if name == "" {
		name = "instance"
	}
	if strings.TrimSpace(req.Instance) == "" {
		return errResp(400, "instance is required")
	}
	if strings.TrimSpace(req.Solution) == "" {
		return errResp(400, "solution is required")
	}

	provider, err := pickProvider(req.BenchmarkScore)
	if err != nil {
		return errResp(400, err.Error())
	}

	inst, err := parse.Instance(name, strings.NewReader(req.Instance))
	if err != nil {
		return errResp(422, err.Error())
	}

	res := dto.VerificationResponse{Instance: name}

	items, err := parse.Solutions("solution", strings.NewReader(req.Solution), inst)
	if err != nil {
		f := domain.AsFailure(err)
		res.Solutions = 1
		res.Items = []dto.VerificationItem{failureItem(&f)}
		return okResp(res)
	}

	verifier := &services.Verifier{Instance: inst, Benchmark: provider}
	for _, sr := range verifier.VerifyStream(ctx, items) {
		if sr.Result == nil {
			res.Items = append(res.Items, dto.VerificationItem{Kind: "annotation", Message: sr.Annotation})
			continue
		}

		res.Solutions++
		if f := sr.Result.First(); f != nil {
			res.Items = append(res.Items, failureItem(f))
		} else {
			res.Items = append(res.Items, dto.VerificationItem{
				Kind:    "success",
				Message: fmt.Sprintf("Verification of %s successful", name),
			})
		}
	}

	return okResp(res)
}

func pickProvider(requestScore *float64) (ports.BenchmarkProvider, error) {
	if requestScore != nil {
		if *requestScore <= 0 {
			return nil, errors.New("benchmark_score must be positive")
		}
		return benchmark.FixedBenchmarkProvider{Mark: *requestScore}, nil
	}

	if raw := strings.TrimSpace(os.Getenv("BENCHMARK_SCORE")); raw != "" {
		mark, err := strconv.ParseFloat(raw, 64)
		if err != nil || mark <= 0 {
			return nil, fmt.Errorf("BENCHMARK_SCORE must be a positive number, got %q", raw)
		}
		return benchmark.FixedBenchmarkProvider{Mark: mark}, nil
	}

	return benchmark.NewPassmarkProvider(os.Getenv("PASSMARK_URL"), nil), nil
}

func failureItem(f *domain.Failure) dto.VerificationItem {
	msg := f.Message
	if f.Kind == domain.KindStructural && f.File != "" {
		msg = "Read error " + msg
	}
	return dto.VerificationItem{Kind: "failure", FailureKind: string(f.Kind), Message: msg}
}

func okResp(res dto.VerificationResponse) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(res)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(body)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
