package service

// knowledgeEntry pairs keyword variants with a canned answer.
type knowledgeEntry struct {
	Keywords []string
	Answer   string
}

// publicKnowledge is answerable for every viewer.
var publicKnowledge = []knowledgeEntry{
	{
		Keywords: []string{
			"library timings", "library timing", "library time", "library hours", "library", "lib timings",
			"lib hours", "opening hours", "closing time", "पुस्तकालय समय", "ग्रंथालय वेळ",
		},
		Answer: "Library is open 9 AM to 8 PM.",
	},
	{
		Keywords: []string{"library hours"},
		Answer:   "Library is open 9 AM to 8 PM.",
	},
	{
		Keywords: []string{
			"परीक्षा फॉर्म", "exam form", "form bharna", "exam form last date", "फॉर्म अंतिम तिथि",
			"परीक्षा फॉर्म अंतिम तिथि",
		},
		Answer: "परीक्षा फॉर्म भरने की अंतिम तिथि 15 मार्च है।",
	},
	{
		Keywords: []string{
			"hostel rules", "hostel rule", "rules hostel", "hostel entry", "entry time", "hostel timing",
			"hostel discipline", "discipline", "hostel id", "id card hostel", "warden rules",
		},
		Answer: "Hostel rules: Entry time is enforced, maintain discipline, carry your ID at all times, and follow wardens' instructions.",
	},
	{
		Keywords: []string{"college website", "official website", "website", "site", "portal", "college portal"},
		Answer:   "Official college website: https://aitr.ac.in/",
	},
	{
		Keywords: []string{
			"admission process", "admission", "how to get admission", "admission procedure",
			"admission steps", "how to apply",
		},
		Answer: "Admission process: Apply online, submit required documents, attend counseling as scheduled, and complete fee payment.",
	},
	{
		Keywords: []string{"exam form last date", "last date exam form", "form last date"},
		Answer:   "Exam form last date is 15 March.",
	},
	{
		Keywords: []string{
			"परीक्षा समय सारणी", "परीक्षा समय सारणीी", "समय सारणी", "परीक्षा सारणी", "परीक्षा समय",
			"pariksha samay sarani", "pariksha sarani", "samay sarani", "exam timetable",
			"exam schedule notice", "timetable", "exam schedule",
		},
		Answer: "परीक्षा समय सारणी नोटिस सेक्शन में उपलब्ध होती है।",
	},
	{
		Keywords: []string{
			"holiday list", "holidays", "academic calendar", "vacation schedule", "holiday", "छुट्टियां",
			"अवकाश सूची", "शैक्षणिक कैलेंडर", "सुट्ट्या", "शैक्षणिक दिनदर्शिका",
		},
		Answer: "Holiday list / academic calendar is available in the Notices or Academics section on the website.",
	},
	{
		Keywords: []string{
			"bus timing", "college bus", "bus timings", "shuttle", "transport", "bus route",
			"transport timetable", "बस समय", "बस रूट", "बस समय सारणी",
		},
		Answer: "College transport timetable and routes are published in the Notices / Transport section.",
	},
	{
		Keywords: []string{
			"library rules", "book issue limit", "issue limit", "library fine", "late fee", "book return",
			"ग्रंथालय नियम", "पुस्तक जारी सीमा", "दंड",
		},
		Answer: "Library rules: Students may issue up to 2 books for 14 days. Late return fine as per library policy displayed in the library.",
	},
	{
		Keywords: []string{
			"contact", "contact details", "contact info", "phone", "email", "helpdesk", "support", "संपर्क",
			"प्रशासन संपर्क", "संपर्क विवरण",
		},
		Answer: "Contact details are available on the Contact page of the official website (see Official college website link).",
	},
	{
		Keywords: []string{
			"what courses are offered at acropolis institute", "courses offered", "courses at acropolis",
			"programs offered", "programs at acropolis",
		},
		Answer: "Acropolis Institute offers undergraduate and postgraduate programs in Engineering, Management, Computer Applications, and Pharmacy.",
	},
	{
		Keywords: []string{
			"Acropolis Institute में कौन-कौन से कोर्स उपलब्ध हैं?", "कोर्स उपलब्ध", "कौन-कौन से कोर्स",
		},
		Answer: "Acropolis Institute में इंजीनियरिंग, मैनेजमेंट, कंप्यूटर एप्लीकेशन और फार्मेसी के स्नातक एवं स्नातकोत्तर कोर्स उपलब्ध हैं।",
	},
	{
		Keywords: []string{"Acropolis Institute இல் எந்த பாடநெறிகள் வழங்கப்படுகின்றன?"},
		Answer:   "Acropolis Institute இல் பொறியியல், மேலாண்மை, கணினி பயன்பாடுகள் மற்றும் மருந்தியல் பாடநெறிகள் வழங்கப்படுகின்றன.",
	},
	{
		Keywords: []string{"Acropolis Institute లో ఏ కోర్సులు అందుబాటులో ఉన్నాయి?"},
		Answer:   "Acropolis Institute లో ఇంజినీరింగ్, మేనేజ్‌మెంట్, కంప్యూటర్ అప్లికేషన్స్ మరియు ఫార్మసీ కోర్సులు అందుబాటులో ఉన్నాయి.",
	},
	{
		Keywords: []string{"Acropolis Institute मध्ये कोणते कोर्स उपलब्ध आहेत?"},
		Answer:   "Acropolis Institute मध्ये अभियांत्रिकी, व्यवस्थापन, संगणक अनुप्रयोग आणि फार्मसी कोर्स उपलब्ध आहेत.",
	},
	{
		Keywords: []string{
			"what is the admission process at acropolis institute", "admission process acropolis",
			"acropolis admission process",
		},
		Answer: "Admissions are based on entrance exams, merit, and counseling as per university and government guidelines.",
	},
	{
		Keywords: []string{"Acropolis Institute में प्रवेश प्रक्रिया क्या है?", "प्रवेश प्रक्रिया"},
		Answer:   "प्रवेश प्रक्रिया प्रवेश परीक्षा, मेरिट और काउंसलिंग पर आधारित होती है।",
	},
	{
		Keywords: []string{"Acropolis Institute இல் சேர்க்கை நடைமுறை என்ன?"},
		Answer:   "சேர்க்கை நடைமுறை நுழைவுத் தேர்வு, மதிப்பெண் மற்றும் கவுன்சிலிங் அடிப்படையில் நடைபெறும்.",
	},
	{
		Keywords: []string{"Acropolis Institute లో అడ్మిషన్ ప్రక్రియ ఏమిటి?"},
		Answer:   "అడ్మిషన్లు ఎంట్రన్స్ ఎగ్జామ్, మెరిట్ మరియు కౌన్సిలింగ్ ఆధారంగా ఉంటాయి.",
	},
	{
		Keywords: []string{"Acropolis Institute मध्ये प्रवेश प्रक्रिया काय आहे?"},
		Answer:   "प्रवेश प्रक्रिया प्रवेश परीक्षा, गुणवत्ता आणि काउन्सेलिंगवर आधारित आहे.",
	},
	{
		Keywords: []string{"eligibility for engineering courses at acropolis", "engineering eligibility acropolis"},
		Answer:   "Candidates must have completed 10+2 with Physics, Chemistry, and Mathematics.",
	},
	{
		Keywords: []string{"Acropolis Institute में इंजीनियरिंग के लिए पात्रता क्या है?", "इंजीनियरिंग पात्रता"},
		Answer:   "उम्मीदवारों ने भौतिकी, रसायन और गणित के साथ 10+2 पूरा किया होना चाहिए।",
	},
	{
		Keywords: []string{"Acropolis Institute இல் பொறியியல் படிப்பிற்கு தகுதி என்ன?"},
		Answer:   "மாணவர்கள் பிளஸ் டூவில் இயற்பியல், இரசாயனம் மற்றும் கணிதம் படித்திருக்க வேண்டும்.",
	},
	{
		Keywords: []string{"Acropolis Institute లో ఇంజినీరింగ్ అర్హత ఏమిటి?"},
		Answer:   "విద్యార్థులు ఫిజిక్స్, కెమిస్ట్రీ, మ్యాథ్స్‌తో 10+2 పూర్తి చేసి ఉండాలి.",
	},
	{
		Keywords: []string{"Acropolis Institute मध्ये अभियांत्रिकीसाठी पात्रता काय आहे?"},
		Answer:   "विद्यार्थ्यांनी भौतिकशास्त्र, रसायनशास्त्र आणि गणितासह 10+2 पूर्ण केलेले असावे.",
	},
	{
		Keywords: []string{"what is the fee structure at acropolis", "fee structure acropolis", "fees acropolis"},
		Answer:   "The fee structure varies by course and is decided as per university norms.",
	},
	{
		Keywords: []string{"Acropolis Institute की फीस संरचना क्या है?", "फीस संरचना"},
		Answer:   "फीस कोर्स के अनुसार अलग-अलग होती है और विश्वविद्यालय के नियमों के अनुसार तय की जाती है।",
	},
	{
		Keywords: []string{"Acropolis Institute இன் கட்டண அமைப்பு என்ன?"},
		Answer:   "பாடநெறியின் அடிப்படையில் கட்டணம் மாறுபடும்.",
	},
	{
		Keywords: []string{"Acropolis Institute ఫీజు నిర్మాణం ఏమిటి?"},
		Answer:   "ఫీజులు కోర్సు ఆధారంగా మారుతాయి.",
	},
	{
		Keywords: []string{"Acropolis Institute ची फी संरचना काय आहे?"},
		Answer:   "फी कोर्सनुसार वेगळी असते.",
	},
	{
		Keywords: []string{"does acropolis provide hostel facilities", "hostel facility acropolis"},
		Answer:   "Yes, separate hostel facilities are available for boys and girls.",
	},
	{
		Keywords: []string{"क्या Acropolis Institute में हॉस्टल सुविधा है?", "हॉस्टल सुविधा"},
		Answer:   "हाँ, लड़कों और लड़कियों के लिए अलग हॉस्टल उपलब्ध हैं।",
	},
	{
		Keywords: []string{"Acropolis Institute ஹாஸ்டல் வசதி வழங்குகிறதா?"},
		Answer:   "ஆம், ஆண் மற்றும் பெண் மாணவர்களுக்கு தனி ஹாஸ்டல்கள் உள்ளன.",
	},
	{
		Keywords: []string{"Acropolis Institute లో హాస్టల్ సదుపాయం ఉందా?"},
		Answer:   "అవును, బాలురు మరియు బాలికలకు వేర్వేరు హాస్టల్స్ ఉన్నాయి.",
	},
	{
		Keywords: []string{"Acropolis Institute मध्ये वसतिगृह सुविधा आहे का?"},
		Answer:   "होय, मुला-मुलींसाठी स्वतंत्र वसतिगृहे उपलब्ध आहेत.",
	},
	{
		Keywords: []string{
			"does acropolis institute provide placement assistance", "placement assistance acropolis",
			"placement support",
		},
		Answer: "Yes, the institute has a dedicated placement cell to support students.",
	},
}

// privateKnowledge is only consulted for students, after the public table.
var privateKnowledge = []knowledgeEntry{
	{
		Keywords: []string{
			"cdc placement process", "placement process", "placement cell", "cdc",
			"career development cell", "campus placement process",
		},
		Answer: "CDC placement process: Register with the placement cell, attend pre-placement talks, complete aptitude and technical rounds, and follow interview schedules.",
	},
	{
		Keywords: []string{
			"revaluation", "rechecking", "reval form", "reevaluation", "copy recheck", "पुनर्मूल्यांकन",
			"रीचेकिंग", "रीएवैल्यूएशन",
		},
		Answer: "Revaluation: Apply within 7 days of result via the exam section; fee as per the notice.",
	},
	{
		Keywords: []string{
			"attendance condonation", "attendance shortage", "attendance below 75", "short attendance",
			"condonation", "उपस्थिति छूट", "उपस्थिति कमी", "75% उपस्थिति",
		},
		Answer: "Attendance condonation: Submit application with supporting documents to the HoD for approval as per institute rules.",
	},
	{
		Keywords: []string{
			"backlog exam", "supplementary exam", "ATKT", "carry over", "back paper", "बैकलॉग",
			"पूरक परीक्षा", "एटीकेटी",
		},
		Answer: "Backlog/supplementary exams: Forms and dates are published in Notices. Register before the deadline.",
	},
	{
		Keywords: []string{
			"id card lost", "duplicate id", "id reissue", "new id card", "identity card", "आईडी कार्ड",
			"आईडी गुम", "आईडी पुनः जारी",
		},
		Answer: "ID card reissue: Submit a request at the admin office (FIR copy if lost). Fee as per the notice.",
	},
	{
		Keywords: []string{
			"internal marks calculation", "internal marks", "how internal marks", "internal assessment",
			"attendance weightage", "assignment marks",
		},
		Answer: "Internal marks calculation: Attendance, assignments, and internal tests contribute to the final internal marks.",
	},
	{
		Keywords: []string{
			"third year exam schedule", "3rd year exam", "ty exam schedule", "third year exam timetable",
			"exam may", "may exam",
		},
		Answer: "Third year exams are conducted in May.",
	},
	{
		Keywords: []string{
			"तीसरे वर्ष की परीक्षा", "third year exam kab", "ty exam kab", "तीसरे वर्ष", "मई", "परीक्षा",
		},
		Answer: "तीसरे वर्ष की परीक्षा मई महीने में होगी।",
	},
	{
		Keywords: []string{
			"fees kab jama", "fees last date", "fees notice", "fees jama karni", "fees deposit last date",
			"fees payment date", "fee notice",
		},
		Answer: "Fees ki last date notice section me hoti hai.",
	},
	{
		Keywords: []string{
			"exam registration third year", "registration third year", "registration deadline",
			"third year registration",
		},
		Answer: "Exam registration for third year closes one month earlier.",
	},
	{
		Keywords: []string{
			"परीक्षा वेळापत्रक", "marathi timetable", "marathi exam schedule", "वेळापत्रक", "परीक्षा वेळ",
			"टाईमटेबल",
		},
		Answer: "परीक्षा वेळापत्रक पोर्टलवर उपलब्ध असते.",
	},
}

// FallbackAnswer is returned when no keyword matches.
const FallbackAnswer = "I could not find a relevant answer. Please refer to the notices or contact the department."
