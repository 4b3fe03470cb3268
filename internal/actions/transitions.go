package actions

import "github.com/zaqqye/signage_backend/internal/models"

var allowedTransitions = map[models.Transition]struct{}{
	"":                     {},
	models.TransitionSlide: {},
	models.TransitionFade:  {},
}

func IsValidTransition(t models.Transition) bool {
	_, ok := allowedTransitions[t]
	return ok
}
