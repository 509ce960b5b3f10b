package recipes

import (
	"pdclean/internal/pipeline"
	"pdclean/internal/temporal"
)

func init() {
	register(Recipe{Name: "investigators", Description: "complaint investigators roster", NeedsRefs: true, steps: investigators})
	register(Recipe{Name: "complaints", Description: "complaint records with beat, category and finding", NeedsRefs: true, steps: complaints})
	register(Recipe{Name: "trr", Description: "tactical response reports", NeedsRefs: true, steps: trr})
	register(Recipe{Name: "action_response", Description: "TRR member and subject actions", steps: actionResponse})
	register(Recipe{Name: "charge", Description: "TRR subject charges", steps: charge})
	register(Recipe{Name: "subject_weapon", Description: "TRR subject weapons", steps: subjectWeapon})
	register(Recipe{Name: "status", Description: "TRR status history", steps: status})
	register(Recipe{Name: "weapon_discharge", Description: "TRR weapon discharges", steps: weaponDischarge})
}

func steps(groups ...[]pipeline.Step) []pipeline.Step {
	var out []pipeline.Step
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func investigators(b *builder) []pipeline.Step {
	return steps(cleanTable(), []pipeline.Step{
		pipeline.Rename(map[string]string{
			"current_unit_assigned":      "current_unit",
			"unit_assigned_at_complaint": "unit_at_complaint",
		}),
		floatToIntStr("current_unit", "unit_at_complaint", "birth_year", "star_no"),
		b.races("race"),
		dates("appointed_date", "assign_datetime"),
		b.lookupUnit("current_unit", "unit_at_complaint"),
		b.genders("gender"),
		b.title("first_name"),
		b.title("last_name"),
	})
}

func complaints(b *builder) []pipeline.Step {
	return steps(cleanTable(), []pipeline.Step{
		pipeline.Rename(map[string]string{
			"beat_of_incident": "beat",
			"current_category": "category",
		}),
		dates("complaint_date", "closed_date"),
		times(temporal.DefaultClockLayout, "incident_time"),
		b.lookupBeat("beat"),
		b.lookupCategory("category"),
		finding("final_finding"),
		b.title("city"),
		b.upper("state"),
	})
}

var trrDropped = []string{
	"rd_no", "cr_no_obtained", "subject_cb_no", "subject_ir_no", "event_no", "polast", "pofirst",
	"pomi", "pogndr", "porace", "poyrofbirth", "appointed_date", "currrank", "currunit", "currbeatassg",
	"rank", "trr_created", "policycompliance",
}

var trrRenames = map[string]string{
	"trr_report_id":        "id",
	"blk":                  "block",
	"stn":                  "street",
	"dir":                  "direction",
	"loc":                  "location",
	"datetime":             "trr_datetime",
	"notify_oemc":          "notify_OEMC",
	"notify_dist_sergeant": "notify_district_sergeant",
	"notify_op_command":    "notify_OP_command",
	"notify_det_div":       "notify_DET_division",
	"unitassg":             "officer_unit_id",
	"unitdetail":           "officer_unit_detail_id",
	"assgnbeat":            "officer_assigned_beat",
	"dutystatus":           "officer_on_duty",
	"poinjured":            "officer_injured",
	"member_in_uniform":    "officer_in_uniform",
	"subgndr":              "subject_gender",
	"subrace":              "subject_race",
	"subyeardob":           "subject_birth_year",
}

func trr(b *builder) []pipeline.Step {
	return []pipeline.Step{
		pipeline.CleanColumnNames(),
		pipeline.Drop(trrDropped...),
		pipeline.Rename(trrRenames),
		direction("direction"),
		layoutDatetimes(temporal.TRRLayout, "trr_datetime"),
		b.races("subject_race"),
		b.title("indoor_or_outdoor", "Indoor", "Outdoor"),
		b.upper("lighting_condition",
			"DAYLIGHT", "GOOD ARTIFICIAL", "DUSK", "NIGHT", "POOR ARTIFICIAL", "DAWN", "ARTIFICIAL", "DARKNESS"),
		b.upper("weather_condition",
			"OTHER", "CLEAR", "SNOW", "RAIN", "SLEET/HAIL", "SEVERE CROSS WIND", "FOG/SMOKE/HAZE"),
		b.upper("party_fired_first", "MEMBER", "OTHER", "OFFENDER"),
		b.upper("subject_race"),
		b.upper("officer_assigned_beat"),
		b.bools(
			"notify_OEMC", "notify_district_sergeant", "notify_OP_command", "notify_DET_division",
			"officer_on_duty", "officer_injured", "officer_in_uniform", "subject_armed", "subject_injured",
			"subject_alleged_injury"),
		b.lookupUnit("officer_unit_id", "officer_unit_detail_id"),
		ensureInt("number_of_weapons_discharged", "officer_unit_id", "officer_unit_detail_id", "subject_birth_year"),
		b.genders("subject_gender"),
	}
}

func actionResponse(b *builder) []pipeline.Step {
	return []pipeline.Step{
		pipeline.CleanColumnNames(),
		pipeline.Rename(map[string]string{"trr_report_id": "trr_id"}),
		b.title("person", "Member Action", "Subject Action"),
		b.title("resistance_type",
			"Active Resister", "Passive Resister", "Assailant Battery", "Assailant Assault/Battery",
			"Assailant Assault", "Assailant Deadly Force"),
		b.upper("action"),
	}
}

func charge(b *builder) []pipeline.Step {
	return []pipeline.Step{
		pipeline.CleanColumnNames(),
		pipeline.Rename(map[string]string{"trr_report_id": "trr_id", "descr": "description"}),
		pipeline.Drop("subject_cb_no", "rd_no"),
		b.upper("description"),
	}
}

func subjectWeapon(b *builder) []pipeline.Step {
	return []pipeline.Step{
		pipeline.CleanColumnNames(),
		pipeline.Rename(map[string]string{"trr_report_id": "trr_id"}),
		b.upper("weapon_type"),
		b.upper("weapon_description"),
	}
}

// The status export swaps first_nme and last_nme; the rename puts them back.
func status(b *builder) []pipeline.Step {
	return []pipeline.Step{
		pipeline.CleanColumnNames(),
		pipeline.Rename(map[string]string{
			"trr_report_id": "trr_id",
			"statdatetime":  "status_datetime",
			"first_nme":     "last_name",
			"last_nme":      "first_name",
			"mi":            "middle_initial",
			"sex":           "gender",
			"memberrace":    "race",
			"yearofbirth":   "birth_year",
		}),
		pipeline.Drop("trr_status", "rank", "unit_at_incident"),
		datetimes("status_datetime"),
		b.races("race"),
		dates("appointed_date"),
	}
}

var dischargeUpper = []string{
	"weapon_type", "firearm_make", "firearm_model", "handgun_worn_type", "handgun_drawn_type",
	"method_used_to_reload", "protective_cover_used", "discharge_distance", "object_struck_of_discharge",
	"discharge_position",
}

func weaponDischarge(b *builder) []pipeline.Step {
	out := []pipeline.Step{
		pipeline.CleanColumnNames(),
		pipeline.Rename(map[string]string{"trr_report_id": "trr_id"}),
	}
	for _, col := range dischargeUpper {
		out = append(out, b.upper(col))
	}
	return append(out,
		ensureInt("total_number_of_shots", "number_of_catdridge_reloaded"),
		b.bools("firearm_reloaded", "sight_used"),
	)
}
