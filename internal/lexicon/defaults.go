package lexicon

func fptr(f float64) *float64 { return &f }

// DefaultEntries is the built-in catalog covering common chemistry, CBC,
// lipid, and thyroid analytes. A lexicon file extends or overrides it.
func DefaultEntries() []Entry {
	return []Entry{
		{CanonicalName: "Glucose", Aliases: []string{"Glucose, Serum", "Glucose, Plasma"}, DefaultUnit: "mg/dL", RangeLow: fptr(70), RangeHigh: fptr(99)},
		{CanonicalName: "BUN", Aliases: []string{"Blood Urea Nitrogen", "Urea Nitrogen"}, DefaultUnit: "mg/dL", RangeLow: fptr(6), RangeHigh: fptr(24)},
		{CanonicalName: "Creatinine", DefaultUnit: "mg/dL", RangeLow: fptr(0.57), RangeHigh: fptr(1.00)},
		{CanonicalName: "eGFR", Aliases: []string{"eGFR If NonAfricn Am", "eGFR If Africn Am", "Glomerular Filtration Rate"}, DefaultUnit: "mL/min/1.73m²", RangeLow: fptr(59)},
		{CanonicalName: "Sodium", DefaultUnit: "mmol/L", RangeLow: fptr(134), RangeHigh: fptr(144)},
		{CanonicalName: "Potassium", DefaultUnit: "mmol/L", RangeLow: fptr(3.5), RangeHigh: fptr(5.2)},
		{CanonicalName: "Chloride", DefaultUnit: "mmol/L", RangeLow: fptr(96), RangeHigh: fptr(106)},
		{CanonicalName: "Carbon Dioxide", Aliases: []string{"Carbon Dioxide, Total", "CO2"}, DefaultUnit: "mmol/L", RangeLow: fptr(20), RangeHigh: fptr(29)},
		{CanonicalName: "Calcium", DefaultUnit: "mg/dL", RangeLow: fptr(8.7), RangeHigh: fptr(10.2)},
		{CanonicalName: "Protein, Total", Aliases: []string{"Total Protein"}, DefaultUnit: "g/dL", RangeLow: fptr(6.0), RangeHigh: fptr(8.5)},
		{CanonicalName: "Albumin", DefaultUnit: "g/dL", RangeLow: fptr(3.8), RangeHigh: fptr(4.9)},
		{CanonicalName: "Bilirubin, Total", Aliases: []string{"Total Bilirubin"}, DefaultUnit: "mg/dL", RangeLow: fptr(0.0), RangeHigh: fptr(1.2)},
		{CanonicalName: "Alkaline Phosphatase", Aliases: []string{"Alk Phos"}, DefaultUnit: "IU/L", RangeLow: fptr(44), RangeHigh: fptr(121)},
		{CanonicalName: "AST", Aliases: []string{"AST (SGOT)", "SGOT"}, DefaultUnit: "IU/L", RangeLow: fptr(0), RangeHigh: fptr(40)},
		{CanonicalName: "ALT", Aliases: []string{"ALT (SGPT)", "SGPT"}, DefaultUnit: "IU/L", RangeLow: fptr(0), RangeHigh: fptr(32)},

		{CanonicalName: "WBC", Aliases: []string{"White Blood Cell Count", "White Blood Cells"}, DefaultUnit: "x10E3/uL", RangeLow: fptr(3.4), RangeHigh: fptr(10.8)},
		{CanonicalName: "RBC", Aliases: []string{"Red Blood Cell Count", "Red Blood Cells"}, DefaultUnit: "x10E6/uL", RangeLow: fptr(3.77), RangeHigh: fptr(5.28)},
		{CanonicalName: "Hemoglobin", Aliases: []string{"Hgb"}, DefaultUnit: "g/dL", RangeLow: fptr(11.1), RangeHigh: fptr(15.9)},
		{CanonicalName: "Hematocrit", Aliases: []string{"Hct"}, DefaultUnit: "%", RangeLow: fptr(34.0), RangeHigh: fptr(46.6)},
		{CanonicalName: "Platelets", Aliases: []string{"Platelet Count"}, DefaultUnit: "x10E3/uL", RangeLow: fptr(150), RangeHigh: fptr(450)},
		{CanonicalName: "MCV", DefaultUnit: "fL", RangeLow: fptr(79), RangeHigh: fptr(97)},
		{CanonicalName: "MCH", DefaultUnit: "pg", RangeLow: fptr(26.6), RangeHigh: fptr(33.0)},
		{CanonicalName: "MCHC", DefaultUnit: "g/dL", RangeLow: fptr(31.5), RangeHigh: fptr(35.7)},

		{CanonicalName: "Cholesterol, Total", Aliases: []string{"Total Cholesterol", "Cholesterol"}, DefaultUnit: "mg/dL", RangeLow: fptr(100), RangeHigh: fptr(199)},
		{CanonicalName: "Triglycerides", DefaultUnit: "mg/dL", RangeLow: fptr(0), RangeHigh: fptr(149)},
		{CanonicalName: "HDL Cholesterol", Aliases: []string{"HDL", "HDL-C"}, DefaultUnit: "mg/dL", RangeLow: fptr(39)},
		{CanonicalName: "LDL Cholesterol", Aliases: []string{"LDL", "LDL-C", "LDL Chol Calc (NIH)"}, DefaultUnit: "mg/dL", RangeLow: fptr(0), RangeHigh: fptr(99)},

		{CanonicalName: "TSH", Aliases: []string{"Thyroid Stimulating Hormone"}, DefaultUnit: "uIU/mL", RangeLow: fptr(0.450), RangeHigh: fptr(4.500)},
		{CanonicalName: "Free T4", Aliases: []string{"T4, Free", "T4,Free(Direct)", "Thyroxine Free"}, DefaultUnit: "ng/dL", RangeLow: fptr(0.82), RangeHigh: fptr(1.77)},
		{CanonicalName: "Hemoglobin A1c", Aliases: []string{"HbA1c", "A1c", "Glycated Hemoglobin"}, DefaultUnit: "%", RangeLow: fptr(4.8), RangeHigh: fptr(5.6)},
		{CanonicalName: "Vitamin D, 25-Hydroxy", Aliases: []string{"Vitamin D", "25-OH Vitamin D"}, DefaultUnit: "ng/mL", RangeLow: fptr(30.0), RangeHigh: fptr(100.0)},

		{CanonicalName: "HIV Ab", Aliases: []string{"HIV 1/2 Antibody", "HIV Antibody"}, Qualitative: true},
		{CanonicalName: "Hepatitis C Ab", Aliases: []string{"HCV Antibody", "Hep C Antibody"}, Qualitative: true},
		{CanonicalName: "Hepatitis B Surface Ag", Aliases: []string{"HBsAg"}, Qualitative: true},
		{CanonicalName: "RPR", Aliases: []string{"RPR (Monitor) w/Refl Titer"}, Qualitative: true},
	}
}
