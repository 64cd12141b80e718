package model

// RecipeJob is one unit of bulk recipe generation.
type RecipeJob struct {
	ID    string
	Index int    // 0-based output position
	Input string // user input fed to the recipe prompt
}
