package generation

import (
	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/schema"
)

// Declared output shapes, one per stage. Property names match the JSON tags
// of the domain records and every field is required.

// ObjectivesSchema describes a list of domain.Objective.
func ObjectivesSchema() schema.Schema {
	return schema.Array(schema.Object(
		schema.Prop("id", schema.String("Kode unik TP, misal TP-1")),
		schema.Prop("cpId", schema.String("Kode CP sumber")),
		schema.Prop("statement", schema.String("Pernyataan TP formal dalam Bahasa Indonesia")),
		schema.Prop("competency", schema.String("Kompetensi yang disasar")),
		schema.Prop("content", schema.String("Materi inti")),
		schema.Prop("bloomLevel", schema.String("Level Taksonomi Bloom (misal: C4 - Analisis)")),
	))
}

// FlowSchema describes a list of domain.FlowItem.
func FlowSchema() schema.Schema {
	return schema.Array(schema.Object(
		schema.Prop("id", schema.String("Kode unik ATP, misal ATP-1")),
		schema.Prop("tpId", schema.String("Kode TP yang dirujuk")),
		schema.Prop("sequence", schema.Integer("Urutan pembelajaran, mulai dari 1")),
		schema.Prop("moduleName", schema.String("Nama Unit/Modul")),
		schema.Prop("durationJP", schema.Number("Jam Pelajaran")),
		schema.Prop("p3Elements", schema.StringArray("Elemen Profil Pelajar Pancasila")),
	))
}

// AnnualProgramSchema describes a list of domain.AnnualProgramItem.
func AnnualProgramSchema() schema.Schema {
	return schema.Array(schema.Object(
		schema.Prop("no", schema.Integer("Nomor urut, mulai dari 1")),
		schema.Prop("cp", schema.String("Cuplikan Capaian Pembelajaran")),
		schema.Prop("atp", schema.String("ATP yang dirujuk")),
		schema.Prop("learningMaterial", schema.String("Materi pembelajaran")),
		schema.Prop("totalJP", schema.Number("Alokasi Jam Pelajaran")),
		schema.Prop("assessmentType", schema.String("Jenis asesmen")),
	))
}

// SemesterProgramSchema describes a list of domain.SemesterProgramItem.
func SemesterProgramSchema() schema.Schema {
	return schema.Array(schema.Object(
		schema.Prop("no", schema.Integer("Nomor urut, mulai dari 1")),
		schema.Prop("semester", schema.Integer("Semester 1 atau 2")),
		schema.Prop("cp", schema.String("Cuplikan Capaian Pembelajaran")),
		schema.Prop("atp", schema.String("ATP yang dirujuk")),
		schema.Prop("learningMaterial", schema.String("Materi pembelajaran")),
		schema.Prop("jp", schema.Number("Alokasi Jam Pelajaran")),
		schema.Prop("assessmentForm", schema.String("Bentuk asesmen")),
	))
}

// StageSchema returns the declared schema for stage.
func StageSchema(stage domain.Stage) (schema.Schema, bool) {
	switch stage {
	case domain.StageObjectives:
		return ObjectivesSchema(), true
	case domain.StageFlow:
		return FlowSchema(), true
	case domain.StageAnnual:
		return AnnualProgramSchema(), true
	case domain.StageSemester:
		return SemesterProgramSchema(), true
	default:
		return schema.Schema{}, false
	}
}
