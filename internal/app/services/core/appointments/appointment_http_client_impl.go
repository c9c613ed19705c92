package appointments

import (
	"context"
	"fmt"
	"net/http"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type historyResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    []models.Appointment `json:"data"`
}

type appointmentHTTPClient struct {
	httpClient *resty.Client
	matchBy    string
	log        *zap.Logger
}

// NewAppointmentHTTPClient reads history from a scheduling service that
// answers GET /appointments with the {success, message, data} envelope.
func NewAppointmentHTTPClient(baseURL, matchBy string, timeout time.Duration, retryCount int, logger *zap.Logger) contracts.AppointmentHistory {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", constvars.MIMEApplicationJSON).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})

	return &appointmentHTTPClient{httpClient: client, matchBy: matchBy, log: logger}
}

func (c *appointmentHTTPClient) ListByPatient(ctx context.Context, patient models.PatientRef) ([]models.Appointment, error) {
	request := c.httpClient.R().SetContext(ctx)
	if requestID := utils.GetRequestID(ctx); requestID != "" {
		request.SetHeader(constvars.HeaderXRequestID, requestID)
	}
	if c.matchBy == constvars.AppointmentMatchByID {
		if patient.ID == "" {
			return []models.Appointment{}, nil
		}
		request.SetQueryParam("patient_id", patient.ID)
	} else {
		if patient.FullName == "" {
			return []models.Appointment{}, nil
		}
		request.SetQueryParam("patient_name", patient.FullName)
	}

	var result historyResponse
	resp, err := request.SetResult(&result).Get("/appointments")
	if err != nil {
		c.log.Error("appointmentHTTPClient.ListByPatient request failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingPatientIDKey, patient.ID),
			zap.Error(err),
		)
		return nil, exceptions.ErrAppointmentHistory(err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return []models.Appointment{}, nil
	}
	if resp.IsError() {
		err := fmt.Errorf("scheduling service status %d", resp.StatusCode())
		c.log.Error("appointmentHTTPClient.ListByPatient unexpected status",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode()),
			zap.Error(err),
		)
		return nil, exceptions.ErrAppointmentHistory(err)
	}

	appointments := result.Data
	if appointments == nil {
		appointments = []models.Appointment{}
	}
	SortNewestFirst(appointments)
	return appointments, nil
}

// SortNewestFirst orders by date, then start time, both descending.
func SortNewestFirst(appointments []models.Appointment) {
	sort.SliceStable(appointments, func(i, j int) bool {
		if appointments[i].Date != appointments[j].Date {
			return appointments[i].Date > appointments[j].Date
		}
		return appointments[i].StartTime > appointments[j].StartTime
	})
}
