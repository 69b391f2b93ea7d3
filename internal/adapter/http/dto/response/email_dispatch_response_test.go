package response

import (
	"testing"

	"pagamentos_xpto/internal/usecase"
)

func TestFromDispatchResult(t *testing.T) {
	res := FromDispatchResult(usecase.DispatchResult{Processed: 5, Sent: 4, Failed: 1})
	if res.Processed != 5 || res.Sent != 4 || res.Failed != 1 {
		t.Fatalf("unexpected mapped fields: %+v", res)
	}
}
