package notify

import (
	"fmt"
	"strings"

	"github.com/jonathan/ojt-matcher/internal/types"
)

// Message kinds
const (
	KindApplicationSubmitted = "application_submitted"
	KindHoursUpdated         = "hours_updated"
	KindDTRReviewed          = "dtr_reviewed"
)

// ApplicationSubmitted is sent to the hosting company when a student applies.
func ApplicationSubmitted(student *types.StudentProfile, internship *types.Internship, app *types.Application) Message {
	skills := make([]string, 0, len(student.Skills))
	for _, s := range student.Skills {
		skills = append(skills, s.Name)
	}
	skillList := strings.Join(skills, ", ")
	if skillList == "" {
		skillList = "N/A"
	}
	course := "N/A"
	if student.Course != nil {
		course = student.Course.Code
	}
	cv := "No CV uploaded."
	if student.HasCV() {
		cv = student.CV
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s HR Team,\n\n", internship.Company.Name)
	fmt.Fprintf(&b, "%s is applying for the internship position %q.\n\n", student.FullName(), internship.Title)
	b.WriteString("Student Details:\n")
	fmt.Fprintf(&b, "Name: %s\n", student.FullName())
	fmt.Fprintf(&b, "Email: %s\n", student.Email)
	fmt.Fprintf(&b, "Phone: %s\n", orNA(student.Phone))
	fmt.Fprintf(&b, "Course: %s\n", course)
	fmt.Fprintf(&b, "Year Level: %s\n", orNA(student.YearLevel))
	fmt.Fprintf(&b, "Section: %s\n", orNA(student.Section))
	fmt.Fprintf(&b, "Address: %s\n", student.Address.String())
	fmt.Fprintf(&b, "Skills: %s\n", skillList)
	fmt.Fprintf(&b, "OJT Hours Completed: %d / %d\n", student.OJTHoursCompleted, student.RequiredOJTHours())
	fmt.Fprintf(&b, "CV: %s\n\n", cv)
	b.WriteString("Application Details:\n")
	fmt.Fprintf(&b, "Internship Title: %s\n", internship.Title)
	fmt.Fprintf(&b, "Company: %s\n", internship.Company.Name)
	fmt.Fprintf(&b, "Match Score: %d/100\n", app.MatchScore)

	var to []string
	if email := internship.Company.ContactEmail(); email != "" {
		to = []string{email}
	}

	return Message{
		Kind:    KindApplicationSubmitted,
		To:      to,
		ReplyTo: student.Email,
		Subject: fmt.Sprintf("Internship Application: %s - %s", internship.Title, student.FullName()),
		Body:    b.String(),
	}
}

// HoursUpdated tells a student their adviser changed their OJT hours.
func HoursUpdated(student *types.StudentProfile) Message {
	return Message{
		Kind:    KindHoursUpdated,
		To:      recipients(student.Email),
		Subject: "OJT Hours Updated",
		Body:    fmt.Sprintf("Your OJT hours have been updated to %d by your adviser.", student.OJTHoursCompleted),
	}
}

// DTRReviewed tells a student the outcome of a DTR review.
func DTRReviewed(student *types.StudentProfile, dtr *types.DTR) Message {
	verdict := "rejected"
	if dtr.Approved {
		verdict = "approved"
	}
	body := fmt.Sprintf("Your DTR for the week of %s was %s.", dtr.WeekStart.Format("Jan 2, 2006"), verdict)
	if dtr.Remarks != "" {
		body += "\n\nRemarks: " + dtr.Remarks
	}
	return Message{
		Kind:    KindDTRReviewed,
		To:      recipients(student.Email),
		Subject: "DTR " + strings.ToUpper(verdict[:1]) + verdict[1:],
		Body:    body,
	}
}

func recipients(email string) []string {
	if email == "" {
		return nil
	}
	return []string{email}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
