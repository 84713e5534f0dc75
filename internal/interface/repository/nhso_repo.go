package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"visitsync-service/internal/domain/entity"
	"visitsync-service/internal/domain/repository"
	"visitsync-service/pkg/logger"
)

// NHSORepository calls the NHSO eligibility-verification API. The inter-call
// delay and request timeout are explicit policy knobs so tests can inject a
// zero delay; the production defaults respect the NHSO rate limit.
type NHSORepository struct {
	logger  logger.Logger
	baseURL string
	token   string
	delay   time.Duration
	client  *http.Client
}

// NewNHSORepository creates a new NHSO eligibility repository
func NewNHSORepository(baseURL, token string, delay, timeout time.Duration, logger logger.Logger) repository.EligibilityRepository {
	return &NHSORepository{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		delay:   delay,
		client:  &http.Client{Timeout: timeout},
	}
}

type serviceHistoryResponse struct {
	ServiceHistories []struct {
		ClaimCode string `json:"claimCode"`
	} `json:"serviceHistories"`
}

// CheckCoverage looks up the service history for a national ID on a service
// date and classifies the result; it waits the configured pacing delay
// before every request
func (r *NHSORepository) CheckCoverage(ctx context.Context, nationalID, serviceDate string) entity.EligibilityOutcome {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return entity.EligibilityOutcome{
				Status: entity.EligibilityNetworkError,
				Err:    ctx.Err().Error(),
			}
		}
	}

	params := url.Values{}
	params.Set("personalId", nationalID)
	params.Set("serviceDate", serviceDate)
	endpoint := r.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entity.EligibilityOutcome{
			Status: entity.EligibilityNetworkError,
			Err:    fmt.Sprintf("build request: %v", err),
		}
	}
	req.Header.Set("Authorization", r.token)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("NHSO request failed", "cid", nationalID, "error", err)
		return entity.EligibilityOutcome{
			Status: entity.EligibilityNetworkError,
			Err:    err.Error(),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("NHSO returned non-200", "cid", nationalID, "status", resp.StatusCode)
		return entity.EligibilityOutcome{
			Status:     entity.EligibilityHTTPError,
			HTTPStatus: resp.StatusCode,
			Err:        fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	var body serviceHistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entity.EligibilityOutcome{
			Status: entity.EligibilityNetworkError,
			Err:    fmt.Sprintf("decode response: %v", err),
		}
	}

	if len(body.ServiceHistories) == 0 {
		return entity.EligibilityOutcome{Status: entity.EligibilityNoHistory}
	}
	claimCode := body.ServiceHistories[0].ClaimCode
	if claimCode == "" {
		return entity.EligibilityOutcome{Status: entity.EligibilityNoCode}
	}

	return entity.EligibilityOutcome{
		Status:    entity.EligibilityFound,
		ClaimCode: claimCode,
	}
}
