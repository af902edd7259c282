package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/epicevents/crm/internal/core/domain"
)

const timeFormat = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func (a *App) renderActors(actors []*domain.Actor) error {
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tEMAIL\tROLE")
	for _, ac := range actors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ac.ID, ac.Username, ac.DisplayName, ac.Email, ac.Role)
	}
	return w.Flush()
}

func (a *App) renderAccounts(accounts []*domain.Account) error {
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tEMAIL\tPHONE\tSALES CONTACT\tUPDATED")
	for _, ac := range accounts {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\t%s\t%s\n",
			ac.ID, ac.FirstName, ac.LastName, ac.CompanyName, ac.Email, ac.Phone,
			ac.SalesContactID, formatTime(ac.UpdatedAt))
	}
	return w.Flush()
}

func (a *App) renderContracts(contracts []*domain.Contract) error {
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tACCOUNT\tSALES CONTACT\tTOTAL\tREMAINING\tSTATE")
	for _, c := range contracts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.AccountID, c.SalesContactID, c.Total, c.Remaining, c.State())
	}
	return w.Flush()
}

func (a *App) renderEvents(events []*domain.Event) error {
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNAME\tCONTRACT\tSTART\tEND\tLOCATION\tATTENDEES\tSUPPORT")
	for _, e := range events {
		support := e.SupportContactID
		if support == "" {
			support = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Name, e.ContractID, formatTime(e.Start), formatTime(e.End),
			e.Location, strconv.Itoa(e.Attendees), support)
	}
	return w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeFormat)
}
