package data

import "github.com/medlit-search-server/internal/domain"

// Guidelines is the embedded registry of national clinical practice
// guidelines. IDs are referenced by the CQ corpus in cq.go.
var Guidelines = []domain.Guideline{
	{
		ID: "gl-stroke-2021", Title: "脳卒中治療ガイドライン2021", TitleEn: "Japanese Guidelines for the Management of Stroke 2021",
		Org: "日本脳卒中学会", URL: "https://www.jsts.gr.jp/guideline/2021.html",
		Cat: "neurology", Country: "JP", Year: 2021,
		Diseases: []string{"脳卒中", "脳梗塞", "脳出血", "stroke", "cerebral infarction"},
	},
	{
		ID: "gl-stroke-rehab-2023", Title: "脳卒中リハビリテーション医療ガイドライン", TitleEn: "Clinical Practice Guideline for Stroke Rehabilitation",
		Org: "日本リハビリテーション医学会", URL: "https://www.jarm.or.jp/guideline/stroke-rehab.html",
		Cat: "rehabilitation", Country: "JP", Year: 2023,
		Diseases: []string{"脳卒中", "リハビリテーション", "stroke", "rehabilitation"},
	},
	{
		ID: "gl-knee-oa-2023", Title: "変形性膝関節症診療ガイドライン2023", TitleEn: "Clinical Practice Guideline for Knee Osteoarthritis 2023",
		Org: "日本整形外科学会", URL: "https://www.joa.or.jp/guideline/knee-oa-2023.html",
		Cat: "orthopedics", Country: "JP", Year: 2023,
		Diseases: []string{"変形性膝関節症", "knee osteoarthritis", "膝OA"},
	},
	{
		ID: "gl-lbp-2019", Title: "腰痛診療ガイドライン2019", TitleEn: "Clinical Practice Guideline for Low Back Pain 2019",
		Org: "日本整形外科学会", URL: "https://www.joa.or.jp/guideline/lbp-2019.html",
		Cat: "orthopedics", Country: "JP", Year: 2019,
		Diseases: []string{"腰痛", "腰痛症", "low back pain"},
	},
	{
		ID: "gl-dm-2024", Title: "糖尿病診療ガイドライン2024", TitleEn: "Japanese Clinical Practice Guideline for Diabetes 2024",
		Org: "日本糖尿病学会", URL: "https://www.jds.or.jp/guideline/2024.html",
		Cat: "endocrinology", Country: "JP", Year: 2024,
		Diseases: []string{"糖尿病", "diabetes", "diabetes mellitus"},
	},
	{
		ID: "gl-htn-2019", Title: "高血圧治療ガイドライン2019", TitleEn: "Guidelines for the Management of Hypertension 2019",
		Org: "日本高血圧学会", URL: "https://www.jpnsh.jp/guideline/2019.html",
		Cat: "cardiology", Country: "JP", Year: 2019,
		Diseases: []string{"高血圧", "高血圧症", "hypertension"},
	},
	{
		ID: "gl-hf-2021", Title: "心不全診療ガイドライン", TitleEn: "Guidelines for Diagnosis and Treatment of Acute and Chronic Heart Failure",
		Org: "日本循環器学会", URL: "https://www.j-circ.or.jp/guideline/hf.html",
		Cat: "cardiology", Country: "JP", Year: 2021,
		Diseases: []string{"心不全", "慢性心不全", "heart failure"},
	},
	{
		ID: "gl-dementia-2017", Title: "認知症疾患診療ガイドライン2017", TitleEn: "Clinical Practice Guideline for Dementia 2017",
		Org: "日本神経学会", URL: "https://www.neurology-jp.org/guideline/dementia-2017.html",
		Cat: "neurology", Country: "JP", Year: 2017,
		Diseases: []string{"認知症", "dementia", "アルツハイマー病"},
	},
	{
		ID: "gl-sarcopenia-2017", Title: "サルコペニア診療ガイドライン2017", TitleEn: "Clinical Practice Guideline for Sarcopenia 2017",
		Org: "日本サルコペニア・フレイル学会", URL: "https://jssf.umin.jp/guideline/sarcopenia-2017.html",
		Cat: "geriatrics", Country: "JP", Year: 2017,
		Diseases: []string{"サルコペニア", "sarcopenia", "フレイル", "frailty"},
	},
	{
		ID: "gl-dysphagia-2018", Title: "摂食嚥下障害の評価と対応ガイドライン", TitleEn: "Clinical Guideline for Dysphagia Assessment and Management",
		Org: "日本摂食嚥下リハビリテーション学会", URL: "https://www.jsdr.or.jp/guideline/dysphagia.html",
		Cat: "rehabilitation", Country: "JP", Year: 2018,
		Diseases: []string{"嚥下障害", "摂食嚥下障害", "dysphagia", "誤嚥性肺炎"},
	},
	{
		ID: "gl-copd-2022", Title: "COPD診断と治療のためのガイドライン2022", TitleEn: "Guidelines for Diagnosis and Treatment of COPD 2022",
		Org: "日本呼吸器学会", URL: "https://www.jrs.or.jp/guideline/copd-2022.html",
		Cat: "pulmonology", Country: "JP", Year: 2022,
		Diseases: []string{"慢性閉塞性肺疾患", "COPD"},
	},
	{
		ID: "gl-op-2015", Title: "骨粗鬆症の予防と治療ガイドライン2015", TitleEn: "Guidelines for Prevention and Treatment of Osteoporosis 2015",
		Org: "日本骨粗鬆症学会", URL: "https://www.josteo.com/guideline/2015.html",
		Cat: "orthopedics", Country: "JP", Year: 2015,
		Diseases: []string{"骨粗鬆症", "osteoporosis", "大腿骨近位部骨折", "転倒"},
	},
}
