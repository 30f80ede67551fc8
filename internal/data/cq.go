package data

import "github.com/medlit-search-server/internal/domain"

// ClinicalQuestions is the embedded registry of clinical questions extracted
// from the guidelines in guidelines.go. Keyword lists mix both scripts so the
// local scorer matches either language.
var ClinicalQuestions = []domain.ClinicalQuestion{
	{
		GID: "gl-stroke-rehab-2023", CQ: "CQ1",
		Q:    "脳卒中患者に対して早期離床・早期リハビリテーションは推奨されるか",
		Type: "treatment", Rec: "発症後できるだけ早期の離床と訓練開始を弱く推奨する", Ev: "rct", Page: 24,
		KW: []string{"脳卒中", "早期離床", "リハビリテーション", "stroke", "early mobilization"},
	},
	{
		GID: "gl-stroke-rehab-2023", CQ: "CQ5",
		Q:    "脳卒中後の上肢麻痺に対してCI療法は有効か",
		Type: "treatment", Rec: "適応のある患者にCI療法を行うことを強く推奨する", Ev: "sr_ma", Page: 58,
		KW: []string{"脳卒中", "上肢麻痺", "CI療法", "constraint-induced movement therapy"},
	},
	{
		GID: "gl-stroke-rehab-2023", CQ: "CQ12",
		Q:    "脳卒中後の嚥下障害に対して嚥下訓練は誤嚥性肺炎を減らすか",
		Type: "treatment", Rec: "系統的な嚥下訓練の実施を弱く推奨する", Ev: "rct", Page: 102,
		KW: []string{"嚥下障害", "誤嚥性肺炎", "嚥下訓練", "dysphagia", "aspiration pneumonia"},
	},
	{
		GID: "gl-stroke-2021", CQ: "CQ3",
		Q:    "急性期脳梗塞に対する血栓回収療法の適応は何か",
		Type: "treatment", Rec: "発症6時間以内の主幹動脈閉塞に血栓回収療法を強く推奨する", Ev: "sr_ma", Page: 45,
		KW: []string{"脳梗塞", "血栓回収", "mechanical thrombectomy"},
	},
	{
		GID: "gl-knee-oa-2023", CQ: "CQ2",
		Q:    "変形性膝関節症に対して運動療法は疼痛を改善するか",
		Type: "treatment", Rec: "運動療法の実施を強く推奨する", Ev: "sr_ma", Page: 30,
		KW: []string{"変形性膝関節症", "運動療法", "knee osteoarthritis", "exercise therapy"},
	},
	{
		GID: "gl-knee-oa-2023", CQ: "CQ7",
		Q:    "変形性膝関節症に対してヒアルロン酸関節内注射は推奨されるか",
		Type: "treatment", Rec: "短期的な疼痛軽減を目的とした使用を弱く推奨する", Ev: "rct", Page: 61,
		KW: []string{"変形性膝関節症", "ヒアルロン酸", "hyaluronic acid", "intra-articular injection"},
	},
	{
		GID: "gl-lbp-2019", CQ: "CQ4",
		Q:    "慢性腰痛に対して認知行動療法は有効か",
		Type: "treatment", Rec: "認知行動療法の実施を弱く推奨する", Ev: "sr_ma", Page: 49,
		KW: []string{"腰痛", "認知行動療法", "low back pain", "cognitive behavioral therapy"},
	},
	{
		GID: "gl-lbp-2019", CQ: "CQ6",
		Q:    "急性腰痛に対して安静は推奨されるか",
		Type: "treatment", Rec: "安静臥床よりも活動維持を強く推奨する", Ev: "sr_ma", Page: 58,
		KW: []string{"腰痛", "安静", "bed rest", "activity"},
	},
	{
		GID: "gl-dm-2024", CQ: "CQ8",
		Q:    "2型糖尿病患者に対して有酸素運動は血糖コントロールを改善するか",
		Type: "treatment", Rec: "週150分以上の有酸素運動を強く推奨する", Ev: "sr_ma", Page: 88,
		KW: []string{"糖尿病", "有酸素運動", "diabetes", "aerobic exercise", "HbA1c"},
	},
	{
		GID: "gl-htn-2019", CQ: "CQ5",
		Q:    "高血圧患者の降圧目標はどの程度が推奨されるか",
		Type: "diagnosis", Rec: "75歳未満では130/80mmHg未満を推奨する", Ev: "sr_ma", Page: 52,
		KW: []string{"高血圧", "降圧目標", "hypertension", "blood pressure target"},
	},
	{
		GID: "gl-hf-2021", CQ: "CQ10",
		Q:    "慢性心不全患者に対して心臓リハビリテーションは再入院を減らすか",
		Type: "treatment", Rec: "外来心臓リハビリテーションの実施を強く推奨する", Ev: "sr_ma", Page: 120,
		KW: []string{"心不全", "心臓リハビリテーション", "heart failure", "cardiac rehabilitation"},
	},
	{
		GID: "gl-dementia-2017", CQ: "CQ3A",
		Q:    "認知症患者に対して運動療法は認知機能低下を遅らせるか",
		Type: "treatment", Rec: "運動療法の実施を弱く推奨する", Ev: "rct", Page: 77,
		KW: []string{"認知症", "運動療法", "dementia", "exercise", "cognitive decline"},
	},
	{
		GID: "gl-sarcopenia-2017", CQ: "CQ2",
		Q:    "サルコペニア患者に対してレジスタンス運動と栄養療法の併用は筋量を増加させるか",
		Type: "treatment", Rec: "レジスタンス運動と蛋白質補充の併用を強く推奨する", Ev: "sr_ma", Page: 41,
		KW: []string{"サルコペニア", "レジスタンス運動", "栄養療法", "sarcopenia", "resistance training", "protein"},
	},
	{
		GID: "gl-sarcopenia-2017", CQ: "CQ5",
		Q:    "高齢者のフレイル予防に運動介入は有効か",
		Type: "prevention", Rec: "多要素運動プログラムの実施を強く推奨する", Ev: "sr_ma", Page: 63,
		KW: []string{"フレイル", "高齢者", "運動", "frailty", "exercise intervention"},
	},
	{
		GID: "gl-dysphagia-2018", CQ: "CQ4",
		Q:    "嚥下障害が疑われる患者に嚥下内視鏡検査は推奨されるか",
		Type: "diagnosis", Rec: "嚥下内視鏡検査の実施を強く推奨する", Ev: "observational", Page: 33,
		KW: []string{"嚥下障害", "嚥下内視鏡", "dysphagia", "videoendoscopy"},
	},
	{
		GID: "gl-copd-2022", CQ: "CQ9",
		Q:    "COPD患者に対して呼吸リハビリテーションは運動耐容能を改善するか",
		Type: "treatment", Rec: "呼吸リハビリテーションの実施を強く推奨する", Ev: "sr_ma", Page: 95,
		KW: []string{"COPD", "呼吸リハビリテーション", "pulmonary rehabilitation", "exercise capacity"},
	},
	{
		GID: "gl-op-2015", CQ: "CQ11",
		Q:    "骨粗鬆症患者の転倒予防に運動介入は有効か",
		Type: "prevention", Rec: "バランス訓練を含む運動介入を強く推奨する", Ev: "sr_ma", Page: 108,
		KW: []string{"骨粗鬆症", "転倒", "運動", "osteoporosis", "fall prevention"},
	},
	{
		GID: "gl-op-2015", CQ: "CQ14",
		Q:    "大腿骨近位部骨折後の早期手術は予後を改善するか",
		Type: "treatment", Rec: "受傷後48時間以内の手術を弱く推奨する", Ev: "observational", Page: 131,
		KW: []string{"大腿骨近位部骨折", "早期手術", "hip fracture", "early surgery"},
	},
}
