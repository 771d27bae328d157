package model

// RecipeLine is one component of a COMPOSITE product. Optional lines sharing
// an OptionGroup are mutually exclusive choices.
type RecipeLine struct {
	ID          string  `db:"id" json:"id"`
	ProductID   string  `db:"product_id" json:"product_id"`
	ComponentID string  `db:"component_id" json:"component_id"`
	Quantity    int     `db:"quantity" json:"quantity"`
	Optional    bool    `db:"optional" json:"optional"`
	OptionGroup *string `db:"option_group" json:"option_group"`

	// Joined from the component product on read.
	ComponentCode string      `db:"component_code" json:"component_code"`
	ComponentName string      `db:"component_name" json:"component_name"`
	ComponentKind ProductKind `db:"component_kind" json:"component_kind"`
}

func (l RecipeLine) Group() string {
	if l.OptionGroup == nil {
		return ""
	}
	return *l.OptionGroup
}
