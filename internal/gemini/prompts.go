package gemini

import (
	"fmt"
	"strings"

	"github.com/mlevkov/glucodip/schema"
)

// promptTimeFormat keeps timestamps readable inside prompts.
const promptTimeFormat = "2006-01-02 15:04"

// BuildMealPrompt renders the meal assessment prompt: meal identity, macro
// totals and the measured glucose response, followed by the three questions
// the narrative should answer.
func BuildMealPrompt(meal *schema.MealResult) string {
	var sb strings.Builder

	sb.WriteString("You are a nutrition and glucose metabolism expert. Analyze this meal's glucose response:\n\n")

	sb.WriteString("## Meal Details:\n")
	fmt.Fprintf(&sb, "- Meal: %s\n", meal.Group)
	fmt.Fprintf(&sb, "- Foods: %s\n", foodList(meal.Foods))
	fmt.Fprintf(&sb, "- Time: %s\n\n", meal.MealTime.Format(promptTimeFormat))

	sb.WriteString("## Macros:\n")
	fmt.Fprintf(&sb, "- Carbs: %.1fg\n", meal.CarbsG)
	fmt.Fprintf(&sb, "- Protein: %.1fg\n", meal.ProteinG)
	fmt.Fprintf(&sb, "- Fat: %.1fg\n", meal.FatG)
	fmt.Fprintf(&sb, "- Fiber: %.1fg\n", meal.FiberG)
	fmt.Fprintf(&sb, "- Sugar: %.1fg\n\n", meal.SugarG)

	sb.WriteString("## Glucose Response:\n")
	if meal.HasMetrics {
		m := meal.Metrics
		fmt.Fprintf(&sb, "- Baseline: %.0f mg/dL\n", m.BaselineGlucose)
		fmt.Fprintf(&sb, "- Peak: %.0f mg/dL\n", m.PeakGlucose)
		fmt.Fprintf(&sb, "- Rise: %.0f mg/dL\n", m.GlucoseRise)
		fmt.Fprintf(&sb, "- Max Drop Velocity: %.2f mg/dL/min\n", m.MaxDropVelocity)
		fmt.Fprintf(&sb, "- Total Drop from Peak: %.0f mg/dL\n", m.TotalDrop)
		fmt.Fprintf(&sb, "- Crash Detected: %s\n", yesNo(m.CrashDetected))
	} else {
		sb.WriteString("- No glucose readings were recorded in this meal's response window.\n")
	}

	sb.WriteString(`
Please provide a concise assessment (2-3 paragraphs) covering:
1. How well the meal composition supported stable glucose
2. What likely caused the glucose pattern observed
3. Specific suggestions to improve this meal for better glucose response

Focus on actionable insights. Be encouraging but honest.`)

	return sb.String()
}

// BuildCrashPrompt renders the crash explanation prompt: the event's shape
// plus whatever was eaten in the hours before it.
func BuildCrashPrompt(crash schema.CrashEvent, priorFoods []schema.FoodEntry) string {
	var sb strings.Builder

	sb.WriteString("You are a nutrition and glucose metabolism expert. Analyze this glucose crash event:\n\n")

	sb.WriteString("## Crash Event Details:\n")
	fmt.Fprintf(&sb, "- Start Time: %s\n", crash.StartTime.Format(promptTimeFormat))
	fmt.Fprintf(&sb, "- End Time: %s\n", crash.EndTime.Format(promptTimeFormat))
	fmt.Fprintf(&sb, "- Starting Glucose: %.0f mg/dL\n", crash.StartGlucose)
	fmt.Fprintf(&sb, "- Ending Glucose: %.0f mg/dL\n", crash.EndGlucose)
	fmt.Fprintf(&sb, "- Drop Magnitude: %.1f mg/dL\n", crash.DropMagnitude)
	fmt.Fprintf(&sb, "- Drop Velocity: %.2f mg/dL per minute\n", crash.MaxVelocity)
	fmt.Fprintf(&sb, "- Duration: %.0f minutes\n", crash.DurationMinutes)

	if len(priorFoods) > 0 {
		sb.WriteString("\n## Food Consumed Beforehand:\n")
		for _, f := range priorFoods {
			fmt.Fprintf(&sb, "- %s at %s (carbs %.1fg, protein %.1fg, fat %.1fg, fiber %.1fg, sugar %.1fg)\n",
				f.FoodName, f.Timestamp.Format("15:04"), f.CarbsG, f.ProteinG, f.FatG, f.FiberG, f.SugarG)
		}
	}

	sb.WriteString(`
Please provide:
1. A clear explanation of why this crash likely occurred
2. The role of the macronutrients (if food data provided)
3. Specific suggestions to prevent similar crashes
4. Any warning signs to watch for

Keep the response concise and actionable.`)

	return sb.String()
}

func foodList(foods []string) string {
	if len(foods) == 0 {
		return "Unknown"
	}
	return strings.Join(foods, ", ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
