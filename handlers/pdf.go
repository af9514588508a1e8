package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"

	"slotboard/models"
	"slotboard/utils"
)

// RosterPDF renders the match structure as a printable roster with one line
// per slot, indented by group depth.
func (a *API) RosterPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	m, err := a.store.Get(ctx, ps.ByName("tid"), ps.ByName("matchid"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	title := m.Name
	if title == "" {
		title = "Slot Roster"
	}
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	writeRosterGroup(pdf, &m.Structure, 0)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=roster-"+m.MatchID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeRosterGroup(pdf *gofpdf.Fpdf, g *models.SlotGroup, depth int) {
	indent := float64(depth * 6)

	if g.Name != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetX(pdf.GetX() + indent)
		pdf.Cell(0, 8, g.Name)
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "", 11)
	for _, s := range g.Slots {
		occupant := s.OccupantUserID
		if occupant == "" {
			occupant = "-"
		}
		pdf.SetX(pdf.GetX() + indent + 4)
		pdf.Cell(0, 7, fmt.Sprintf("%s: %s", s.Name, occupant))
		pdf.Ln(7)
	}

	for i := range g.Groups {
		writeRosterGroup(pdf, &g.Groups[i], depth+1)
	}
}
