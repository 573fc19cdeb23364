package views

import (
	"fmt"

	"github.com/matheus3301/wppmanager/internal/backend"
	"github.com/matheus3301/wppmanager/internal/tui/ui"
	"github.com/rivo/tview"
)

// PairingView displays the QR code that links a gateway instance to a phone.
type PairingView struct {
	*tview.TextView
	theme    *ui.Theme
	instance string
}

// NewPairingView creates a new pairing view.
func NewPairingView(theme *ui.Theme) *PairingView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Connect Instance ")
	tv.SetTitleColor(theme.TitleColor)

	return &PairingView{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (pv *PairingView) Name() string { return "Connect" }

// Start implements Component.
func (pv *PairingView) Start() {}

// Stop implements Component.
func (pv *PairingView) Stop() {}

// Hints implements Component.
func (pv *PairingView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// SetInstance sets the instance being paired.
func (pv *PairingView) SetInstance(name string) {
	pv.instance = name
	pv.SetTitle(fmt.Sprintf(" Connect %s ", tview.Escape(name)))
}

// ShowQR renders the pairing code as a scannable QR block.
func (pv *PairingView) ShowQR(qr *backend.QRCode) {
	pv.Clear()
	if qr == nil || qr.Code == "" {
		pv.ShowMessage("The gateway did not return a pairing code. The instance may already be connected.")
		return
	}
	block, err := ui.RenderQR(qr.Code, "  ")
	if err != nil {
		pv.ShowMessage("QR generation failed: " + err.Error())
		return
	}
	_, _ = fmt.Fprintf(pv, "\n  Scan this QR code with WhatsApp (Linked devices):\n\n%s\n", block)
	if qr.PairingCode != "" {
		_, _ = fmt.Fprintf(pv, "  Or enter the pairing code [::b]%s[-:-:-]\n", tview.Escape(qr.PairingCode))
	}
	_, _ = fmt.Fprint(pv, "\n  [::d]Waiting for the instance to connect...[-:-:-]")
}

// ShowMessage displays a status message.
func (pv *PairingView) ShowMessage(msg string) {
	pv.Clear()
	_, _ = fmt.Fprintf(pv, "\n\n%s", tview.Escape(msg))
}
