package devicemgr

import (
	"fmt"

	"github.com/emu-tui/emu/internal/apperror"
	"github.com/emu-tui/emu/internal/domain"
)

// ValidateCreate checks a CreateSpec against §4.3's rules, returning one
// *apperror.Error (Kind Validation) per distinct violation rather than
// stopping at the first error.
func ValidateCreate(spec domain.CreateSpec, existing []domain.Record, androidDevice bool) []*apperror.Error {
	var errs []*apperror.Error

	if !domain.ValidAVDName(spec.Name) {
		errs = append(errs, apperror.Field(apperror.Validation, "name",
			"must match ^[a-zA-Z0-9_.-]+$ and be 1-50 characters"))
	} else {
		for _, r := range existing {
			if r.Identity == spec.Name {
				errs = append(errs, apperror.Field(apperror.Validation, "name",
					fmt.Sprintf("%q already exists", spec.Name)))
				break
			}
		}
	}

	if androidDevice {
		if !domain.ValidRAMMB(spec.RAMMB) {
			errs = append(errs, apperror.Field(apperror.Validation, "ram_mb",
				fmt.Sprintf("must be in [%d, %d]", domain.MinRAMMB, domain.MaxRAMMB)))
		}
		if !domain.ValidStorageMB(spec.StorageMB) {
			errs = append(errs, apperror.Field(apperror.Validation, "storage_mb",
				fmt.Sprintf("must be in [%d, %d]", domain.MinStorageMB, domain.MaxStorageMB)))
		}
		if !domain.ValidAPILevel(spec.APILevel) {
			errs = append(errs, apperror.Field(apperror.Validation, "api_level",
				fmt.Sprintf("must be >= %d", domain.MinAPILevel)))
		}
	}

	return errs
}
