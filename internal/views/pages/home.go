package pages

// HomeData feeds the meal-entry form.
type HomeData struct {
	DishNames []string
	Today     string
}
