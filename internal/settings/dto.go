package settings

import "github.com/campussrc/src-portal/internal"

type UpdateSettingDTO struct {
	Value string `json:"value"`
}

func (d UpdateSettingDTO) Validate() error {
	if len(d.Value) > 2048 {
		return internal.NewValidationFieldError("value", "setting value must be at most 2048 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}
