package service

// DietRecommendation is one item of dietary guidance.
type DietRecommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DietAdvisor returns dietary guidance matching a verdict.
type DietAdvisor struct {
	healthy      []DietRecommendation
	heartDisease []DietRecommendation
}

// NewDietAdvisor creates an advisor with the standard guidance lists.
func NewDietAdvisor() *DietAdvisor {
	return &DietAdvisor{
		healthy: []DietRecommendation{
			{Title: "Fruits and Vegetables", Description: "Aim for at least 5 servings of various fruits and vegetables daily."},
			{Title: "Whole Grains", Description: "Choose whole grain versions of bread, pasta, and rice."},
			{Title: "Lean Protein", Description: "Include lean meats, poultry, fish, beans, and nuts in your diet."},
			{Title: "Low-Fat Dairy", Description: "Opt for low-fat or fat-free dairy products."},
			{Title: "Healthy Fats", Description: "Use olive oil, avocados, and nuts for healthy fats. Limit saturated fats."},
			{Title: "Reduce Sodium", Description: "Limit salt intake to less than 2,300mg daily (about 1 teaspoon)."},
			{Title: "Limit Added Sugars", Description: "Reduce consumption of sweets, sugary drinks, and processed foods."},
		},
		heartDisease: []DietRecommendation{
			{Title: "Reduce Sodium", Description: "Limit sodium to 1,500mg per day. Avoid processed foods and use herbs for flavoring."},
			{Title: "Heart-Healthy Fats", Description: "Choose omega-3 fatty acids from fish, walnuts, and flaxseeds. Avoid trans fats completely."},
			{Title: "Increase Fiber", Description: "Eat high-fiber foods like oats, barley, beans, and plenty of vegetables."},
			{Title: "Limit Red Meat", Description: "Replace red meat with fish, skinless poultry, and plant-based proteins."},
			{Title: "Control Portions", Description: "Use smaller plates and follow recommended serving sizes."},
			{Title: "Avoid Alcohol", Description: "Limit or avoid alcohol consumption completely."},
			{Title: "Mediterranean Diet", Description: "Consider following the Mediterranean diet pattern, rich in plants, fish, and olive oil."},
			{Title: "Regular Monitoring", Description: "Track your food intake and work with a dietitian to create a personalized plan."},
		},
	}
}

// Recommend returns a copy of the guidance list for the given verdict.
func (a *DietAdvisor) Recommend(hasHeartDisease bool) []DietRecommendation {
	src := a.healthy
	if hasHeartDisease {
		src = a.heartDisease
	}
	out := make([]DietRecommendation, len(src))
	copy(out, src)
	return out
}
