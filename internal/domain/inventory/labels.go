package inventory

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Etiquetas conocidas por el sistema.
const (
	LabelIncoming          = "Incoming"
	LabelBack              = "Back"
	LabelDelivery          = "Delivery"
	LabelRestocking        = "Restocking"
	LabelTransferIn        = "Transfer in"
	LabelTransferOut       = "Transfer out"
	LabelInventoryGain     = "Inventory gain"
	LabelInventoryLoss     = "Inventory loss"
	labelEntree            = "Entrée"
	labelRetourClient      = "Retour client"
	labelSortie            = "Sortie"
	labelRetourFournisseur = "Retour fournisseur"
)

// DefaultInLabels etiquetas que suman al stock.
var DefaultInLabels = []string{
	LabelIncoming, LabelBack, LabelTransferIn, LabelInventoryGain, labelEntree, labelRetourClient,
}

// DefaultOutLabels etiquetas que restan al stock.
var DefaultOutLabels = []string{
	LabelDelivery, LabelRestocking, LabelTransferOut, LabelInventoryLoss, labelSortie, labelRetourFournisseur,
}

// Classes tabla etiqueta → dirección. Es la única fuente del signo de cada etiqueta conocida;
// las etiquetas libres usan la dirección guardada en el movimiento.
type Classes struct {
	byKey  map[string]entity.Direction
	labels map[string]string // clave plegada → etiqueta tal como se configuró
}

// NewClasses construye la tabla. Una etiqueta no puede pertenecer a las dos clases.
func NewClasses(in, out []string) (*Classes, error) {
	c := &Classes{
		byKey:  make(map[string]entity.Direction, len(in)+len(out)),
		labels: make(map[string]string, len(in)+len(out)),
	}
	add := func(label string, d entity.Direction) error {
		key := labelKey(label)
		if key == "" {
			return nil
		}
		if prev, ok := c.byKey[key]; ok && prev != d {
			return fmt.Errorf("%w: la etiqueta %q está en IN y en OUT", domain.ErrValidation, label)
		}
		c.byKey[key] = d
		c.labels[key] = strings.TrimSpace(label)
		return nil
	}
	for _, l := range in {
		if err := add(l, entity.DirectionIn); err != nil {
			return nil, err
		}
	}
	for _, l := range out {
		if err := add(l, entity.DirectionOut); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DefaultClasses tabla con las etiquetas por defecto.
func DefaultClasses() *Classes {
	c, err := NewClasses(DefaultInLabels, DefaultOutLabels)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup devuelve la dirección registrada para la etiqueta.
func (c *Classes) Lookup(label string) (entity.Direction, bool) {
	d, ok := c.byKey[labelKey(label)]
	return d, ok
}

// Canonical devuelve la etiqueta con la grafía configurada, o la recibida sin espacios si no es conocida.
func (c *Classes) Canonical(label string) string {
	if l, ok := c.labels[labelKey(label)]; ok {
		return l
	}
	return strings.TrimSpace(label)
}

// Resolve determina la dirección de un movimiento a partir de su etiqueta y la dirección declarada.
// Si la etiqueta está en la tabla, la dirección declarada (si viene) debe coincidir.
func (c *Classes) Resolve(label string, declared entity.Direction) (entity.Direction, error) {
	if declared != "" && !declared.IsValid() {
		return "", fmt.Errorf("%w: dirección %q (se espera IN u OUT)", domain.ErrValidation, declared)
	}
	known, ok := c.Lookup(label)
	switch {
	case ok && declared != "" && declared != known:
		return "", fmt.Errorf("%w: la etiqueta %q es %s y se declaró %s", domain.ErrValidation, label, known, declared)
	case ok:
		return known, nil
	case declared != "":
		return declared, nil
	default:
		return "", fmt.Errorf("%w: dirección requerida para la etiqueta %q", domain.ErrValidation, label)
	}
}

// Sign +1 para movimientos de clase IN, -1 para clase OUT.
func (c *Classes) Sign(m entity.StockMovement) int64 {
	d := m.Direction
	if known, ok := c.Lookup(m.Label); ok {
		d = known
	}
	if d == entity.DirectionOut {
		return -1
	}
	return 1
}

// Labels etiquetas registradas para una dirección, en orden alfabético.
func (c *Classes) Labels(d entity.Direction) []string {
	out := make([]string, 0, len(c.labels))
	for key, dir := range c.byKey {
		if dir == d {
			out = append(out, c.labels[key])
		}
	}
	sort.Strings(out)
	return out
}

func labelKey(label string) string {
	return cases.Fold().String(strings.TrimSpace(label))
}
