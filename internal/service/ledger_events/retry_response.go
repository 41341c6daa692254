package ledger_events

type RetryResponse struct {
	SuccessIDs []string `json:"success_ids"`
	FailedIDs  []string `json:"failed_ids"`
	ErrorMsg   string   `json:"error,omitempty"`
	Message    string   `json:"message,omitempty"`
}

func (r *RetryResponse) SetError(err error) {
	if err != nil {
		r.ErrorMsg = err.Error()
	}
}
