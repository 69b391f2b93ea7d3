package response

import "pagamentos_xpto/internal/usecase"

type EmailDispatchResponse struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

func FromDispatchResult(r usecase.DispatchResult) EmailDispatchResponse {
	return EmailDispatchResponse{
		Processed: r.Processed,
		Sent:      r.Sent,
		Failed:    r.Failed,
	}
}
