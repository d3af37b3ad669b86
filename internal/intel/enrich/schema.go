package enrich

import "intelcorp/internal/common/validation"

var (
	scalar = map[string]interface{}{"type": []interface{}{"string", "number", "boolean", "null"}}
	list   = map[string]interface{}{"type": []interface{}{"array", "string", "null"}}
	object = map[string]interface{}{"type": []interface{}{"object", "null"}}
	array  = map[string]interface{}{"type": []interface{}{"array", "null"}}
)

// profileSchema describes the shape each top-level key must have. Nested
// values are coerced field by field, so only container types are checked
// below the root.
var profileSchema = validation.MustCompile(map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"nom_complet":           scalar,
		"description":           scalar,
		"pays":                  scalar,
		"ville_siege":           scalar,
		"adresse":               scalar,
		"site_web":              scalar,
		"email_contact":         scalar,
		"telephone":             scalar,
		"date_creation":         scalar,
		"forme_juridique":       scalar,
		"numero_enregistrement": scalar,
		"secteur":               scalar,
		"activite_principale":   scalar,
		"maison_mere":           scalar,
		"verdict":               scalar,
		"niveau_risque":         scalar,

		"produits_services":  list,
		"marches_operes":     list,
		"filiales":           list,
		"partenaires_connus": list,
		"recommandations":    list,

		"dirigeants":   array,
		"actionnaires": array,
		"red_flags":    array,

		"financier":         object,
		"reputation":        object,
		"presence_digitale": object,
		"sanctions":         object,

		"score_risque": map[string]interface{}{"type": []interface{}{"number", "string", "null"}},
	},
})
