package health

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (hrm *HealthRoutesManager) GetServerHealth(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(hrm.healthService.Server()),
		gecho.Send(),
	)
}

// dependency answers 200 with the dependency status, or 503 with the same body when the ping fails.
func (hrm *HealthRoutesManager) dependency(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := hrm.healthService.Check(r.Context(), name)
		if err != nil {
			gecho.ServiceUnavailable(w,
				gecho.WithMessage(name+" health check failed"),
				gecho.WithData(status),
				gecho.Send(),
			)
			return
		}
		gecho.Success(w,
			gecho.WithData(status),
			gecho.Send(),
		)
	}
}
