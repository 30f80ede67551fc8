// Package data holds the static corpora embedded in the binary: the synonym
// equivalence classes, the national guideline registry, and the clinical
// questions extracted from those guidelines. Everything here is read-only
// after process start.
package data

// SynonymClasses lists equivalence classes of medical surface terms across
// Japanese and Latin scripts. Membership is case-insensitive; classes must
// stay disjoint.
var SynonymClasses = [][]string{
	{"脳卒中", "stroke", "脳血管障害", "cerebrovascular accident", "CVA"},
	{"脳梗塞", "cerebral infarction", "ischemic stroke"},
	{"リハビリテーション", "rehabilitation", "リハビリ", "rehab"},
	{"変形性膝関節症", "knee osteoarthritis", "膝OA"},
	{"変形性股関節症", "hip osteoarthritis"},
	{"糖尿病", "diabetes", "diabetes mellitus", "DM"},
	{"高血圧", "hypertension", "高血圧症"},
	{"心不全", "heart failure", "慢性心不全", "CHF"},
	{"認知症", "dementia", "アルツハイマー病", "alzheimer disease"},
	{"誤嚥性肺炎", "aspiration pneumonia"},
	{"サルコペニア", "sarcopenia", "筋肉減少症"},
	{"フレイル", "frailty", "虚弱"},
	{"腰痛", "low back pain", "lumbago", "腰痛症"},
	{"転倒", "fall", "falls", "転倒予防"},
	{"嚥下障害", "dysphagia", "摂食嚥下障害", "swallowing disorder"},
	{"運動療法", "exercise therapy", "therapeutic exercise"},
	{"理学療法", "physical therapy", "physiotherapy", "PT"},
	{"作業療法", "occupational therapy", "OT"},
	{"言語聴覚療法", "speech therapy", "speech-language therapy", "ST"},
	{"パーキンソン病", "parkinson disease", "Parkinson's disease", "PD"},
	{"関節リウマチ", "rheumatoid arthritis", "RA"},
	{"慢性閉塞性肺疾患", "COPD", "chronic obstructive pulmonary disease"},
	{"骨粗鬆症", "osteoporosis", "骨粗しょう症"},
	{"脊髄損傷", "spinal cord injury", "SCI"},
	{"大腿骨近位部骨折", "hip fracture", "大腿骨頸部骨折"},
	{"がん", "cancer", "悪性腫瘍", "malignancy", "癌"},
	{"うつ病", "depression", "major depressive disorder", "抑うつ"},
	{"疼痛", "pain", "痛み"},
	{"廃用症候群", "disuse syndrome", "deconditioning"},
	{"褥瘡", "pressure ulcer", "pressure injury", "床ずれ"},
}
