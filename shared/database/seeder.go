package database

import (
	"log"

	"auditgate-backend/shared/config"
	"auditgate-backend/shared/database/models"
	utils "auditgate-backend/shared/utils/auth"
)

// SeedDatabase seeds the database with initial data
func SeedDatabase() error {
	log.Println("Checking database seed data...")

	if err := CreateSuperAdminFromConfig(); err != nil {
		return err
	}

	created, err := SeedSystemTemplates()
	if err != nil {
		return err
	}

	if created > 0 {
		log.Printf("Database seeding completed (%d system templates created)", created)
	} else {
		log.Println("Database seed data is up to date")
	}
	return nil
}

// CreateSuperAdminFromConfig creates the platform admin using config values
func CreateSuperAdminFromConfig() error {
	cfg := config.GetConfig()
	return CreateSuperAdmin(cfg.SuperAdminEmail, cfg.SuperAdminPassword, cfg.SuperAdminFullName)
}

// CreateSuperAdmin creates the initial platform admin user. Platform
// admins belong to no organization.
func CreateSuperAdmin(email, password, fullName string) error {
	var existing models.User
	if err := DB.Where("role = ?", models.RolePlatformAdmin).First(&existing).Error; err == nil {
		log.Printf("Platform admin already exists: %s", existing.Email)
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:          email,
		HashedPassword: hashedPassword,
		FullName:       fullName,
		Role:           models.RolePlatformAdmin,
		IsActive:       true,
		OrganizationID: nil,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Platform admin created: %s", email)
	return nil
}

// SeedSystemTemplates creates the built-in audit checklists. System
// templates belong to no organization and cannot be modified; each
// (standard) is seeded at most once.
func SeedSystemTemplates() (int, error) {
	created := 0
	for _, seed := range systemTemplates() {
		var count int64
		err := DB.Model(&models.Template{}).
			Where("is_system = ? AND standard = ?", true, seed.Standard).
			Count(&count).Error
		if err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		seed.IsSystem = true
		seed.OrganizationID = nil
		if err := DB.Create(&seed).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func systemTemplates() []models.Template {
	return []models.Template{
		{
			Name:          "ISO 27001 Temel Kontroller",
			NameEn:        "ISO 27001 Core Controls",
			Description:   "ISO 27001:2022 standardı için hazır denetim kontrol listesi",
			DescriptionEn: "Ready-made audit checklist for the ISO 27001:2022 standard",
			Standard:      models.StandardISO27001,
			Items: []models.TemplateItem{
				{
					OrderNumber:             1,
					ControlReference:        "A.5.1",
					DefaultTitle:            "Güvenlik Politikaları",
					DefaultTitleEn:          "Security Policies",
					DefaultDescription:      "Kuruluşun bilgi güvenliği politikalarının tanımlanması, yayınlanması ve gözden geçirilmesi",
					DefaultDescriptionEn:    "Definition, publication and review of the organization's information security policies",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Üst yönetim tarafından onaylanmış yazılı güvenlik politikaları oluşturulmalı ve tüm personel bilgilendirilmelidir.",
					DefaultRecommendationEn: "Written security policies approved by top management should be established and communicated to all staff.",
				},
				{
					OrderNumber:             2,
					ControlReference:        "A.5.2",
					DefaultTitle:            "Güvenlik Rolleri ve Sorumlulukları",
					DefaultTitleEn:          "Security Roles and Responsibilities",
					DefaultDescription:      "Bilgi güvenliği için roller ve sorumlulukların tanımlanması",
					DefaultDescriptionEn:    "Definition of roles and responsibilities for information security",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Güvenlik rolleri ve sorumluluklar net bir şekilde tanımlanmalı ve belgelenmelidir.",
					DefaultRecommendationEn: "Security roles and responsibilities should be clearly defined and documented.",
				},
				{
					OrderNumber:             3,
					ControlReference:        "A.6.2",
					DefaultTitle:            "Uzaktan Çalışma",
					DefaultTitleEn:          "Remote Working",
					DefaultDescription:      "Uzaktan çalışma için güvenlik önlemlerinin alınması",
					DefaultDescriptionEn:    "Security measures for remote working arrangements",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Uzaktan çalışma politikası oluşturulmalı, VPN kullanımı zorunlu hale getirilmelidir.",
					DefaultRecommendationEn: "A remote working policy should be established and VPN use should be mandatory.",
				},
				{
					OrderNumber:             4,
					ControlReference:        "A.7.3",
					DefaultTitle:            "Bilgi Güvenliği Farkındalığı ve Eğitim",
					DefaultTitleEn:          "Information Security Awareness and Training",
					DefaultDescription:      "Personelin güvenlik farkındalığının artırılması için eğitim programlarının uygulanması",
					DefaultDescriptionEn:    "Training programs to raise staff security awareness",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Yıllık güvenlik farkındalık eğitimleri düzenlenmeli ve phishing simülasyonları yapılmalıdır.",
					DefaultRecommendationEn: "Annual security awareness training and phishing simulations should be conducted.",
				},
				{
					OrderNumber:             5,
					ControlReference:        "A.8.1",
					DefaultTitle:            "Varlık Envanteri",
					DefaultTitleEn:          "Asset Inventory",
					DefaultDescription:      "Bilgi varlıklarının belirlenmesi ve envanterinin çıkarılması",
					DefaultDescriptionEn:    "Identification and inventory of information assets",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Tüm bilgi varlıkları kategorize edilmeli, envanter tutulmalı ve sahipleri atanmalıdır.",
					DefaultRecommendationEn: "All information assets should be categorized, inventoried and assigned owners.",
				},
			},
		},
		{
			Name:          "KVKK Kişisel Veri Koruma Denetimi",
			NameEn:        "KVKK Personal Data Protection Audit",
			Description:   "6698 sayılı Kişisel Verilerin Korunması Kanunu uyumluluk denetimi kontrol listesi",
			DescriptionEn: "Compliance audit checklist for Turkish data protection law no. 6698",
			Standard:      models.StandardKVKK,
			Items: []models.TemplateItem{
				{
					OrderNumber:             1,
					ControlReference:        "KVKK-1",
					DefaultTitle:            "Veri Envanteri",
					DefaultTitleEn:          "Data Inventory",
					DefaultDescription:      "Kişisel veri işleme envanterinin hazırlanması ve güncel tutulması",
					DefaultDescriptionEn:    "Preparation and maintenance of the personal data processing inventory",
					DefaultSeverity:         models.SeverityCritical,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "VERBİS kaydı yapılmalı ve veri envanteri düzenli olarak güncellenmelidir.",
					DefaultRecommendationEn: "VERBIS registration should be completed and the data inventory kept up to date.",
				},
				{
					OrderNumber:             2,
					ControlReference:        "KVKK-2",
					DefaultTitle:            "Aydınlatma Yükümlülüğü",
					DefaultTitleEn:          "Disclosure Obligation",
					DefaultDescription:      "Veri sahiplerinin kişisel veri işleme faaliyetleri hakkında bilgilendirilmesi",
					DefaultDescriptionEn:    "Informing data subjects about personal data processing activities",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Aydınlatma metinleri hazırlanmalı ve tüm veri toplama noktalarında sunulmalıdır.",
					DefaultRecommendationEn: "Privacy notices should be prepared and presented at all data collection points.",
				},
				{
					OrderNumber:             3,
					ControlReference:        "KVKK-3",
					DefaultTitle:            "Açık Rıza Yönetimi",
					DefaultTitleEn:          "Explicit Consent Management",
					DefaultDescription:      "Gerekli hallerde açık rızanın alınması ve kayıt altına alınması",
					DefaultDescriptionEn:    "Obtaining and recording explicit consent where required",
					DefaultSeverity:         models.SeverityCritical,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Açık rıza süreçleri tanımlanmalı ve rıza kayıtları saklanmalıdır.",
					DefaultRecommendationEn: "Explicit consent processes should be defined and consent records retained.",
				},
				{
					OrderNumber:             4,
					ControlReference:        "KVKK-4",
					DefaultTitle:            "Veri Güvenliği Tedbirleri",
					DefaultTitleEn:          "Data Security Measures",
					DefaultDescription:      "Kişisel verilerin korunması için teknik ve idari tedbirlerin alınması",
					DefaultDescriptionEn:    "Technical and organizational measures for the protection of personal data",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Kurul rehberlerindeki teknik ve idari tedbirler uygulanmalıdır.",
					DefaultRecommendationEn: "Technical and organizational measures from the authority's guidelines should be applied.",
				},
			},
		},
		{
			Name:          "GDPR Kişisel Veri Koruma Denetimi",
			NameEn:        "GDPR Personal Data Protection Audit",
			Description:   "General Data Protection Regulation uyumluluk denetimi kontrol listesi",
			DescriptionEn: "General Data Protection Regulation compliance audit checklist",
			Standard:      models.StandardGDPR,
			Items: []models.TemplateItem{
				{
					OrderNumber:             1,
					ControlReference:        "Art.30",
					DefaultTitle:            "İşleme Faaliyetleri Kaydı",
					DefaultTitleEn:          "Records of Processing Activities",
					DefaultDescription:      "Veri işleme faaliyetlerinin kayıt altına alınması",
					DefaultDescriptionEn:    "Maintaining records of data processing activities",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Madde 30 uyarınca işleme faaliyetleri kaydı tutulmalıdır.",
					DefaultRecommendationEn: "Records of processing activities should be maintained per Article 30.",
				},
				{
					OrderNumber:             2,
					ControlReference:        "Art.33",
					DefaultTitle:            "Veri İhlali Bildirimi",
					DefaultTitleEn:          "Data Breach Notification",
					DefaultDescription:      "Veri ihlallerinin 72 saat içinde denetim makamına bildirilmesi",
					DefaultDescriptionEn:    "Notifying the supervisory authority of data breaches within 72 hours",
					DefaultSeverity:         models.SeverityCritical,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "İhlal müdahale planı oluşturulmalı ve bildirim süreçleri tanımlanmalıdır.",
					DefaultRecommendationEn: "A breach response plan should be established with defined notification processes.",
				},
				{
					OrderNumber:             3,
					ControlReference:        "Art.35",
					DefaultTitle:            "Veri Koruma Etki Değerlendirmesi",
					DefaultTitleEn:          "Data Protection Impact Assessment",
					DefaultDescription:      "Yüksek riskli işleme faaliyetleri için etki değerlendirmesi yapılması",
					DefaultDescriptionEn:    "Impact assessments for high-risk processing activities",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "DPIA süreci tanımlanmalı ve yüksek riskli işlemler için uygulanmalıdır.",
					DefaultRecommendationEn: "A DPIA process should be defined and applied to high-risk processing.",
				},
			},
		},
		{
			Name:          "PCI DSS Kart Verisi Güvenliği Denetimi",
			NameEn:        "PCI DSS Cardholder Data Security Audit",
			Description:   "Payment Card Industry Data Security Standard uyumluluk denetimi kontrol listesi",
			DescriptionEn: "Payment Card Industry Data Security Standard compliance audit checklist",
			Standard:      models.StandardPCIDSS,
			Items: []models.TemplateItem{
				{
					OrderNumber:             1,
					ControlReference:        "Req.1",
					DefaultTitle:            "Ağ Güvenlik Kontrolleri",
					DefaultTitleEn:          "Network Security Controls",
					DefaultDescription:      "Kart verisi ortamını koruyan ağ güvenlik kontrollerinin kurulması",
					DefaultDescriptionEn:    "Network security controls protecting the cardholder data environment",
					DefaultSeverity:         models.SeverityCritical,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Güvenlik duvarı kuralları belgelenmeli ve düzenli gözden geçirilmelidir.",
					DefaultRecommendationEn: "Firewall rules should be documented and reviewed regularly.",
				},
				{
					OrderNumber:             2,
					ControlReference:        "Req.3",
					DefaultTitle:            "Saklanan Kart Verisinin Korunması",
					DefaultTitleEn:          "Protection of Stored Cardholder Data",
					DefaultDescription:      "Saklanan kart verilerinin şifrelenmesi ve saklama sürelerinin sınırlanması",
					DefaultDescriptionEn:    "Encryption of stored card data and limitation of retention periods",
					DefaultSeverity:         models.SeverityCritical,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Kart verileri güçlü kriptografi ile şifrelenmeli, saklama politikası uygulanmalıdır.",
					DefaultRecommendationEn: "Card data should be encrypted with strong cryptography and a retention policy enforced.",
				},
				{
					OrderNumber:             3,
					ControlReference:        "Req.8",
					DefaultTitle:            "Kullanıcı Kimlik Doğrulama",
					DefaultTitleEn:          "User Authentication",
					DefaultDescription:      "Sistem bileşenlerine erişimde kullanıcıların kimliklerinin doğrulanması",
					DefaultDescriptionEn:    "Authentication of users accessing system components",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Çok faktörlü kimlik doğrulama tüm erişimlerde zorunlu olmalıdır.",
					DefaultRecommendationEn: "Multi-factor authentication should be required for all access.",
				},
			},
		},
		{
			Name:          "NIST Cybersecurity Framework Denetimi",
			NameEn:        "NIST Cybersecurity Framework Audit",
			Description:   "NIST Cybersecurity Framework uyumluluk denetimi kontrol listesi",
			DescriptionEn: "NIST Cybersecurity Framework compliance audit checklist",
			Standard:      models.StandardNIST,
			Items: []models.TemplateItem{
				{
					OrderNumber:             1,
					ControlReference:        "ID.AM",
					DefaultTitle:            "Varlık Yönetimi",
					DefaultTitleEn:          "Asset Management",
					DefaultDescription:      "Donanım, yazılım ve veri varlıklarının tanımlanması ve yönetilmesi",
					DefaultDescriptionEn:    "Identification and management of hardware, software and data assets",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Varlık envanteri oluşturulmalı ve kritiklik seviyeleri belirlenmelidir.",
					DefaultRecommendationEn: "An asset inventory should be created with criticality levels assigned.",
				},
				{
					OrderNumber:             2,
					ControlReference:        "PR.AC",
					DefaultTitle:            "Erişim Kontrolü",
					DefaultTitleEn:          "Access Control",
					DefaultDescription:      "Varlıklara ve tesislere erişimin yetkili kullanıcılarla sınırlanması",
					DefaultDescriptionEn:    "Limiting access to assets and facilities to authorized users",
					DefaultSeverity:         models.SeverityCritical,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "En az ayrıcalık ilkesi uygulanmalı, erişim hakları düzenli gözden geçirilmelidir.",
					DefaultRecommendationEn: "Least privilege should be enforced and access rights reviewed regularly.",
				},
				{
					OrderNumber:             3,
					ControlReference:        "DE.CM",
					DefaultTitle:            "Sürekli İzleme",
					DefaultTitleEn:          "Continuous Monitoring",
					DefaultDescription:      "Güvenlik olaylarını tespit etmek için sistemlerin sürekli izlenmesi",
					DefaultDescriptionEn:    "Continuous monitoring of systems to detect security events",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "SIEM çözümü kurulmalı ve uyarı süreçleri tanımlanmalıdır.",
					DefaultRecommendationEn: "A SIEM solution should be deployed with defined alerting processes.",
				},
			},
		},
		{
			Name:          "CIS Controls Denetimi",
			NameEn:        "CIS Controls Audit",
			Description:   "Center for Internet Security Critical Security Controls uyumluluk denetimi kontrol listesi",
			DescriptionEn: "Center for Internet Security Critical Security Controls compliance audit checklist",
			Standard:      models.StandardCIS,
			Items: []models.TemplateItem{
				{
					OrderNumber:             1,
					ControlReference:        "CIS-1",
					DefaultTitle:            "Kurumsal Varlıkların Envanteri",
					DefaultTitleEn:          "Inventory of Enterprise Assets",
					DefaultDescription:      "Tüm kurumsal varlıkların envanterinin tutulması ve yönetilmesi",
					DefaultDescriptionEn:    "Maintaining and managing an inventory of all enterprise assets",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Otomatik varlık keşif araçları kullanılmalı ve envanter güncel tutulmalıdır.",
					DefaultRecommendationEn: "Automated asset discovery tools should be used and the inventory kept current.",
				},
				{
					OrderNumber:             2,
					ControlReference:        "CIS-5",
					DefaultTitle:            "Hesap Yönetimi",
					DefaultTitleEn:          "Account Management",
					DefaultDescription:      "Kullanıcı hesaplarının yaşam döngüsünün yönetilmesi",
					DefaultDescriptionEn:    "Managing the lifecycle of user accounts",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Hesap oluşturma ve kapatma süreçleri tanımlanmalı, pasif hesaplar devre dışı bırakılmalıdır.",
					DefaultRecommendationEn: "Account provisioning and deprovisioning processes should be defined and dormant accounts disabled.",
				},
				{
					OrderNumber:             3,
					ControlReference:        "CIS-8",
					DefaultTitle:            "Denetim Günlüğü Yönetimi",
					DefaultTitleEn:          "Audit Log Management",
					DefaultDescription:      "Denetim günlüklerinin toplanması, saklanması ve gözden geçirilmesi",
					DefaultDescriptionEn:    "Collection, retention and review of audit logs",
					DefaultSeverity:         models.SeverityMedium,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Merkezi günlük toplama kurulmalı ve günlükler düzenli incelenmelidir.",
					DefaultRecommendationEn: "Centralized log collection should be established and logs reviewed regularly.",
				},
			},
		},
		{
			Name:          "SOC 2 Güvenlik Denetimi",
			NameEn:        "SOC 2 Security Audit",
			Description:   "Service Organization Control 2 (Trust Services Criteria) uyumluluk denetimi kontrol listesi",
			DescriptionEn: "Service Organization Control 2 (Trust Services Criteria) compliance audit checklist",
			Standard:      models.StandardSOC2,
			Items: []models.TemplateItem{
				{
					OrderNumber:             1,
					ControlReference:        "CC6.1",
					DefaultTitle:            "Mantıksal Erişim Kontrolleri",
					DefaultTitleEn:          "Logical Access Controls",
					DefaultDescription:      "Sistemlere mantıksal erişimin yetkilendirme ile sınırlanması",
					DefaultDescriptionEn:    "Restricting logical access to systems through authorization",
					DefaultSeverity:         models.SeverityCritical,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Rol bazlı erişim kontrolü uygulanmalı ve erişimler periyodik olarak gözden geçirilmelidir.",
					DefaultRecommendationEn: "Role-based access control should be applied with periodic access reviews.",
				},
				{
					OrderNumber:             2,
					ControlReference:        "CC7.2",
					DefaultTitle:            "Güvenlik Olayı İzleme",
					DefaultTitleEn:          "Security Event Monitoring",
					DefaultDescription:      "Anormalliklerin ve güvenlik olaylarının tespit edilmesi",
					DefaultDescriptionEn:    "Detection of anomalies and security events",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "İzleme altyapısı kurulmalı ve olay müdahale planı oluşturulmalıdır.",
					DefaultRecommendationEn: "Monitoring infrastructure and an incident response plan should be established.",
				},
				{
					OrderNumber:             3,
					ControlReference:        "A1.2",
					DefaultTitle:            "Yedekleme ve Kurtarma",
					DefaultTitleEn:          "Backup and Recovery",
					DefaultDescription:      "Veri yedekleme ve felaket kurtarma süreçlerinin işletilmesi",
					DefaultDescriptionEn:    "Operating data backup and disaster recovery processes",
					DefaultSeverity:         models.SeverityHigh,
					DefaultStatus:           models.FindingStatusOpen,
					DefaultRecommendation:   "Yedekler düzenli alınmalı ve kurtarma testleri yapılmalıdır.",
					DefaultRecommendationEn: "Backups should be taken regularly and recovery tests performed.",
				},
			},
		},
	}
}
