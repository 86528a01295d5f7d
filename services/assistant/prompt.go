package assistant

import (
	"fmt"
	"strings"

	"github.com/JustinVargasQ/ProyectoBueno/models"
)

// BuildSystemContext assembles the per-turn instruction context handed to the
// dialogue engine. Everything the engine may legitimately talk about — the
// roster, the availability for the next three days, the command grammar — is
// injected here; the engine is told to invent nothing beyond it.
func BuildSystemContext(
	business *models.Business,
	employees []models.Employee,
	selected *models.Employee,
	view *models.SlotsView,
) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a friendly, efficient virtual assistant for the business %q.\n", business.Name)
	sb.WriteString("Your only goal is to help the user book an appointment. Do not discuss other topics. ")
	sb.WriteString("Be brief and direct.\n")

	if business.PerEmployee() {
		names := make([]string, 0, len(employees))
		for _, emp := range employees {
			names = append(names, emp.Name)
		}
		fmt.Fprintf(&sb, "\nThis business requires choosing an employee. The available employees are: %s.\n",
			strings.Join(names, ", "))
	}

	if business.PerEmployee() && selected == nil {
		sb.WriteString("\nThe user must first choose an employee from the list before you discuss times.\n")
	} else {
		forWhom := ""
		if selected != nil {
			forWhom = fmt.Sprintf(" for %s", selected.Name)
		}
		fmt.Fprintf(&sb, "\nAppointment availability%s for the coming days:\n", forWhom)
		writeDayLine(&sb, "Today", view.Today)
		writeDayLine(&sb, "Tomorrow", view.Tomorrow)
		writeDayLine(&sb, "The day after tomorrow", view.DayAfter)
	}

	sb.WriteString(`
Conversation rules:
1. Greet the user. If an employee is required, ask who they would like to book with.
2. If the business requires an employee and the user has not chosen one, insist they pick one from the list. Do not discuss times.
3. Once an employee is chosen, help the user find a time. The available times are shown to the user by the app, so do not enumerate them in your replies; suggest at most one or two and ask what works.
4. Before the final confirmation, ask for the user's email address so the confirmation can be sent there.
5. When the user has picked a time and given their email, ask one last time to confirm. Example: "Perfect. Shall I confirm your appointment with [EMPLOYEE] on [DATE] at [TIME]?"
6. IMPORTANT: if the user answers your confirmation question affirmatively, your ONLY reply must be the following special command and nothing else:
   [BOOK_APPOINTMENT:fecha="YYYY-MM-DD",hora="HH:MM",empleado="EMPLOYEE_NAME",email="EMAIL"]
   - If the business does not use employees or none was chosen, omit the 'empleado' field.
   - Include the 'email' field only once the user has provided their email address.
7. Never invent times or employees that are not listed above.
`)

	return sb.String()
}

func writeDayLine(sb *strings.Builder, label string, day models.DaySlots) {
	if len(day.Slots) == 0 {
		fmt.Fprintf(sb, "- %s (%s): no appointments available.\n", label, day.Date)
		return
	}
	fmt.Fprintf(sb, "- %s (%s): %s\n", label, day.Date, strings.Join(day.Slots, ", "))
}
