package arcgis

import (
	"fmt"
	"strings"
	"time"

	"github.com/gridwatch/gridwatch/internal/models"
)

// External attribute names as exported by the survey layer. The field names
// are truncated by the survey tool, hence the odd spellings.
const (
	attrObjectID                = "OBJECTID"
	attrGlobalID                = "GlobalID"
	attrTransformerID           = "Transformer_ID"
	attrLatitude                = "esrignss_latitude"
	attrLongitude               = "esrignss_longitude"
	attrLocation                = "Location"
	attrAddress                 = "Address_If_Possible"
	attrType                    = "Type_of_Transformer"
	attrCapacity                = "Capacity_If_visible"
	attrManufacturer            = "Manufacturer_Name"
	attrPhysicalCondition       = "Physical_Condition_of_the_Trans"
	attrOilLeakage              = "Oil_Leakage_Visible"
	attrRustCorrosion           = "Rust_or_Corrosion_on_the_Body"
	attrExternalDamage          = "External_Damage_eg_dents_cracks"
	attrOverheatingSigns        = "Signs_of_Overheating_eg_discolo"
	attrBushingsCondition       = "Condition_of_Bushings"
	attrInsulatorsCondition     = "Condition_of_Insulators"
	attrCoolingFinsPresent      = "Presence_of_Cooling_Fins"
	attrCoolingFinsState        = "State_of_Cooling_Fins"
	attrSupportStructureType    = "Type_of_Support_Structure"
	attrSupportStructureCond    = "Condition_of_Support_Structure"
	attrSafetySignagePresent    = "Safety_Signage_Present"
	attrClearanceFromBuildings  = "Clearance_from_Buildings"
	attrAccessibilityIssues     = "Accessibility_Issues_eg_overgro"
	attrUnauthorizedConnections = "Presence_of_Unauthorized_Connec"
	attrAssessmentDate          = "Date_and_Time"
	attrCreationDate            = "CreationDate"
	attrEditDate                = "EditDate"
)

// MappingError marks a single malformed feature. The sync pass skips the
// feature and continues.
type MappingError struct {
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map feature: %s", e.Reason)
}

// MapFeature converts one external feature into a transformer record. The
// object id is mandatory; every other field degrades to its zero or nil
// value. Pure, no I/O.
func MapFeature(f Feature) (*models.Transformer, error) {
	objectID, ok := attrInt(f.Attributes, attrObjectID)
	if !ok {
		return nil, &MappingError{Reason: "missing " + attrObjectID}
	}

	t := &models.Transformer{
		ObjectID:      objectID,
		GlobalID:      attrText(f.Attributes, attrGlobalID),
		TransformerID: attrText(f.Attributes, attrTransformerID),

		Location:     attrText(f.Attributes, attrLocation),
		Address:      attrText(f.Attributes, attrAddress),
		Type:         attrText(f.Attributes, attrType),
		Capacity:     attrText(f.Attributes, attrCapacity),
		Manufacturer: attrText(f.Attributes, attrManufacturer),

		PhysicalCondition:         attrText(f.Attributes, attrPhysicalCondition),
		OilLeakage:                attrYes(f.Attributes, attrOilLeakage),
		RustCorrosion:             attrYes(f.Attributes, attrRustCorrosion),
		ExternalDamage:            attrYes(f.Attributes, attrExternalDamage),
		OverheatingSigns:          attrYes(f.Attributes, attrOverheatingSigns),
		BushingsCondition:         attrText(f.Attributes, attrBushingsCondition),
		InsulatorsCondition:       attrText(f.Attributes, attrInsulatorsCondition),
		CoolingFinsPresent:        attrYes(f.Attributes, attrCoolingFinsPresent),
		CoolingFinsState:          attrText(f.Attributes, attrCoolingFinsState),
		SupportStructureType:      attrText(f.Attributes, attrSupportStructureType),
		SupportStructureCondition: attrText(f.Attributes, attrSupportStructureCond),
		SafetySignagePresent:      attrYes(f.Attributes, attrSafetySignagePresent),
		ClearanceFromBuildings:    attrText(f.Attributes, attrClearanceFromBuildings),
		AccessibilityIssues:       attrYes(f.Attributes, attrAccessibilityIssues),
		UnauthorizedConnections:   attrYes(f.Attributes, attrUnauthorizedConnections),

		AssessmentDate: attrEpochMillis(f.Attributes, attrAssessmentDate),
		CreationDate:   attrEpochMillis(f.Attributes, attrCreationDate),
		LastUpdateDate: attrEpochMillis(f.Attributes, attrEditDate),
	}

	// Geometry wins over the GNSS attribute fields when both are present.
	if f.Geometry != nil {
		lat, lon := f.Geometry.Y, f.Geometry.X
		t.Latitude = &lat
		t.Longitude = &lon
	} else {
		t.Latitude = attrFloat(f.Attributes, attrLatitude)
		t.Longitude = attrFloat(f.Attributes, attrLongitude)
	}

	return t, nil
}

// attrInt reads an integer attribute. JSON numbers arrive as float64.
func attrInt(attrs map[string]any, key string) (int64, bool) {
	switch v := attrs[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// attrText reads a string attribute; empty or missing maps to nil.
func attrText(attrs map[string]any, key string) *string {
	s, ok := attrs[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// attrYes normalizes a yes/no string attribute: a case-insensitive "yes" is
// true, anything else (including missing) is false.
func attrYes(attrs map[string]any, key string) bool {
	s, ok := attrs[key].(string)
	return ok && strings.EqualFold(strings.TrimSpace(s), "yes")
}

// attrFloat reads a numeric attribute; missing or zero maps to nil.
func attrFloat(attrs map[string]any, key string) *float64 {
	v, ok := attrs[key].(float64)
	if !ok || v == 0 {
		return nil
	}
	return &v
}

// attrEpochMillis reads an epoch-millisecond attribute; missing, null or
// zero maps to nil.
func attrEpochMillis(attrs map[string]any, key string) *time.Time {
	v, ok := attrs[key].(float64)
	if !ok || v == 0 {
		return nil
	}
	t := time.UnixMilli(int64(v)).UTC()
	return &t
}
