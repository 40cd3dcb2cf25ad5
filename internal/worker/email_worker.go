package worker

// email_worker.go renders the boleta PDF and mails it to the address given at
// checkout.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pab0412/api-gamer-zeta/internal/infra"
	"github.com/pab0412/api-gamer-zeta/internal/model"
	"github.com/pab0412/api-gamer-zeta/internal/repository"

	"github.com/rs/zerolog/log"
)

// BoletaEmailPayload is the job body sent to QueueBoletaEmail.
type BoletaEmailPayload struct {
	BoletaID uint   `json:"boleta_id"`
	ToEmail  string `json:"to_email"`
}

// BoletaSender delivers a receipt PDF. *infra.Mailer implements it.
type BoletaSender interface {
	SendBoleta(to, subject, body, pdfPath string) error
}

var _ BoletaSender = (*infra.Mailer)(nil)

type EmailWorker struct {
	boletas     repository.BoletaRepository
	sender      BoletaSender
	storagePath string
}

func NewEmailWorker(boletas repository.BoletaRepository, sender BoletaSender, storagePath string) *EmailWorker {
	return &EmailWorker{boletas: boletas, sender: sender, storagePath: storagePath}
}

// Process loads the boleta, writes its PDF and sends it.
// Malformed payloads are dropped; delivery errors are returned for retry.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload BoletaEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Uint("boleta_id", payload.BoletaID).Msg("email_worker: empty to_email, skipping")
		return nil
	}

	boleta, err := w.boletas.FindByID(ctx, payload.BoletaID)
	if err != nil {
		return fmt.Errorf("email_worker: boleta %d: %w", payload.BoletaID, err)
	}
	if boleta.Venta == nil {
		return errors.New("email_worker: boleta without venta")
	}

	pdfPath, err := infra.SaveBoletaPDF(boleta, boleta.Venta, w.storagePath)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Tu boleta %s", boleta.Numero)
	if err := w.sender.SendBoleta(payload.ToEmail, subject, emailBody(boleta), pdfPath); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().
		Str("to", payload.ToEmail).
		Str("numero", boleta.Numero).
		Msg("email_worker: boleta sent")
	return nil
}

func emailBody(b *model.Boleta) string {
	return fmt.Sprintf("Hola %s,\n\nAdjuntamos tu boleta %s por un total de $%s.\n\nGracias por tu compra.\n",
		b.Cliente, b.Numero, b.MontoTotal.StringFixed(2))
}
