package arcgis

import (
	"errors"
	"testing"
	"time"
)

func TestMapFeature_FullRecord(t *testing.T) {
	assessed := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	f := Feature{
		Attributes: map[string]any{
			"OBJECTID":                        float64(17),
			"GlobalID":                        "abc-123",
			"Transformer_ID":                  "TX-017",
			"Location":                        "Kumasi North",
			"Address_If_Possible":             "12 Market Rd",
			"Type_of_Transformer":             "Pole-mounted",
			"Capacity_If_visible":             "200 kVA",
			"Manufacturer_Name":               "ABB",
			"Physical_Condition_of_the_Trans": "Fair",
			"Oil_Leakage_Visible":             "Yes",
			"Rust_or_Corrosion_on_the_Body":   "No",
			"External_Damage_eg_dents_cracks": "no",
			"Signs_of_Overheating_eg_discolo": "YES",
			"Condition_of_Bushings":           "Good",
			"Presence_of_Cooling_Fins":        "Yes",
			"Safety_Signage_Present":          "Yes",
			"Presence_of_Unauthorized_Connec": "No",
			"Date_and_Time":                   float64(assessed.UnixMilli()),
			"esrignss_latitude":               6.70,
			"esrignss_longitude":              -1.62,
		},
		Geometry: &Geometry{X: -1.6163, Y: 6.6885},
	}

	got, err := MapFeature(f)
	if err != nil {
		t.Fatalf("MapFeature: %v", err)
	}

	if got.ObjectID != 17 {
		t.Errorf("object id = %d, want 17", got.ObjectID)
	}
	if got.TransformerID == nil || *got.TransformerID != "TX-017" {
		t.Errorf("transformer id = %v, want TX-017", got.TransformerID)
	}
	if !got.OilLeakage {
		t.Error("oil leakage should be true for 'Yes'")
	}
	if got.RustCorrosion {
		t.Error("rust corrosion should be false for 'No'")
	}
	if !got.OverheatingSigns {
		t.Error("overheating should be true for 'YES' (case-insensitive)")
	}
	if got.PhysicalCondition == nil || *got.PhysicalCondition != "Fair" {
		t.Errorf("physical condition = %v, want Fair", got.PhysicalCondition)
	}
	if got.AssessmentDate == nil || !got.AssessmentDate.Equal(assessed) {
		t.Errorf("assessment date = %v, want %v", got.AssessmentDate, assessed)
	}
}

func TestMapFeature_GeometryWinsOverAttributes(t *testing.T) {
	f := Feature{
		Attributes: map[string]any{
			"OBJECTID":           float64(1),
			"esrignss_latitude":  1.0,
			"esrignss_longitude": 2.0,
		},
		Geometry: &Geometry{X: -1.6163, Y: 6.6885},
	}

	got, err := MapFeature(f)
	if err != nil {
		t.Fatalf("MapFeature: %v", err)
	}
	if got.Latitude == nil || *got.Latitude != 6.6885 {
		t.Errorf("latitude = %v, want geometry Y 6.6885", got.Latitude)
	}
	if got.Longitude == nil || *got.Longitude != -1.6163 {
		t.Errorf("longitude = %v, want geometry X -1.6163", got.Longitude)
	}
}

func TestMapFeature_FallsBackToGNSSAttributes(t *testing.T) {
	f := Feature{
		Attributes: map[string]any{
			"OBJECTID":           float64(1),
			"esrignss_latitude":  6.70,
			"esrignss_longitude": -1.62,
		},
	}

	got, err := MapFeature(f)
	if err != nil {
		t.Fatalf("MapFeature: %v", err)
	}
	if got.Latitude == nil || *got.Latitude != 6.70 {
		t.Errorf("latitude = %v, want 6.70", got.Latitude)
	}
	if got.Longitude == nil || *got.Longitude != -1.62 {
		t.Errorf("longitude = %v, want -1.62", got.Longitude)
	}
}

func TestMapFeature_MissingObjectID(t *testing.T) {
	f := Feature{Attributes: map[string]any{"Location": "somewhere"}}

	_, err := MapFeature(f)
	if err == nil {
		t.Fatal("expected error for missing OBJECTID")
	}
	var mapErr *MappingError
	if !errors.As(err, &mapErr) {
		t.Errorf("error = %T, want *MappingError", err)
	}
}

func TestMapFeature_SparseRecord(t *testing.T) {
	f := Feature{Attributes: map[string]any{"OBJECTID": float64(5)}}

	got, err := MapFeature(f)
	if err != nil {
		t.Fatalf("MapFeature: %v", err)
	}
	if got.ObjectID != 5 {
		t.Errorf("object id = %d, want 5", got.ObjectID)
	}
	if got.TransformerID != nil || got.Location != nil || got.Latitude != nil {
		t.Error("missing attributes should map to nil")
	}
	if got.OilLeakage || got.SafetySignagePresent {
		t.Error("missing indicators should map to false")
	}
	if got.AssessmentDate != nil || got.CreationDate != nil {
		t.Error("missing dates should map to nil")
	}
}

func TestMapFeature_EmptyStringsAndZeroDates(t *testing.T) {
	f := Feature{
		Attributes: map[string]any{
			"OBJECTID":       float64(5),
			"Transformer_ID": "",
			"Date_and_Time":  float64(0),
		},
	}

	got, err := MapFeature(f)
	if err != nil {
		t.Fatalf("MapFeature: %v", err)
	}
	if got.TransformerID != nil {
		t.Error("empty string should map to nil")
	}
	if got.AssessmentDate != nil {
		t.Error("zero epoch should map to nil")
	}
}
