package compiler

import "fmt"

// toolPatterns gives each tool kind's shaped-recipe pattern, using "M" for
// the tier material and "S" for the stick handle.
var toolPatterns = map[string][3]string{
	"PICKAXE": {"MMM", " S ", " S "},
	"AXE":     {"MM ", "MS ", " S "},
	"SWORD":   {" M ", " M ", " S "},
	"SHOVEL":  {" M ", " S ", " S "},
	"HOE":     {"MM ", " S ", " S "},
}

// synthesizeRecipes builds one shaped crafting recipe per tool, using the
// kind-specific pattern and the material-tier ingredient table (spec.md
// §4.2, with the §9 design note requiring tier derivation rather than the
// hard-coded-iron shortcut).
func synthesizeRecipes(modID string, tools []IRTool) []IRRecipe {
	var recipes []IRRecipe
	for _, tool := range tools {
		pattern, ok := toolPatterns[tool.ToolKind]
		if !ok {
			pattern = toolPatterns["PICKAXE"]
		}
		ingredient := recipeIngredientByTier[tool.MaterialTier]
		if ingredient == "" {
			ingredient = recipeIngredientByTier["IRON"]
		}

		recipes = append(recipes, IRRecipe{
			RecipeID: fmt.Sprintf("data/%s/recipe/%s.json", modID, tool.ElementID),
			ResultID: tool.RegistryID,
			Pattern:  pattern,
			Ingredients: map[string]string{
				"M": ingredient,
				"S": stickID,
			},
		})
	}
	return recipes
}
